package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/payload"
)

type editService struct {
	sink     Sink
	observer UseCaseObserver
}

func NewEditService(sink Sink, observers ...UseCaseObserver) EditService {
	return &editService{sink: sink, observer: useCaseObserverOrNoop(observers)}
}

func (s *editService) Update(ctx context.Context, req contract.EditRequest) (result *contract.EditResult, err error) {
	fields := map[string]any{"kind": string(req.Kind), "id": req.ID, "dry_run": req.DryRun}
	defer observe(ctx, s.observer, "edit", time.Now().UTC(), fields, &err)

	path, err := backend.NodePath(req.Kind, req.ID)
	if err != nil {
		return nil, err
	}
	body := payload.Normalize(req.Form)
	result = &contract.EditResult{
		Kind:    req.Kind,
		ID:      req.ID,
		Path:    path,
		Payload: body,
		DryRun:  req.DryRun,
	}
	if req.DryRun {
		return result, nil
	}

	result.Queued, err = s.sink.Write(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", req.Kind, req.ID, err)
	}
	fields["queued"] = result.Queued
	return result, nil
}
