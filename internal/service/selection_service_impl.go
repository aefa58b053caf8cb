package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/tree"
	"golang.org/x/sync/errgroup"
)

// selectionBody is the write shape of a package's feature selection.
type selectionBody struct {
	FeatureIDs []int64 `json:"feature_ids"`
}

type selectionService struct {
	trees    TreeService
	source   Source
	sink     Sink
	observer UseCaseObserver
}

func NewSelectionService(trees TreeService, source Source, sink Sink, observers ...UseCaseObserver) SelectionService {
	return &selectionService{
		trees:    trees,
		source:   source,
		sink:     sink,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *selectionService) Marked(ctx context.Context, packageID string) (result *contract.SelectionResult, err error) {
	fields := map[string]any{"package_id": packageID}
	defer observe(ctx, s.observer, "selection", time.Now().UTC(), fields, &err)

	result, err = s.marked(ctx, packageID)
	if err != nil {
		return nil, err
	}
	fields["enabled"] = len(result.EnabledIDs)
	return result, nil
}

// marked loads the feature tree and the selection concurrently.
func (s *selectionService) marked(ctx context.Context, packageID string) (*contract.SelectionResult, error) {
	if packageID == "" {
		return nil, ErrPackageIDRequired
	}

	var (
		features  *contract.TreeResult
		selection *Fetched
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		features, err = s.trees.Tree(gctx, contract.NewTreeRequest(domain.TreeFeature))
		return err
	})
	g.Go(func() error {
		var err error
		selection, err = s.source.Fetch(gctx, backend.PackageFeaturesPath(packageID))
		if err != nil {
			return fmt.Errorf("fetching package %s selection: %w", packageID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roots := tree.MarkEnabled(features.Roots, tree.ExtractIDs(selection.Body))
	origin := features.Origin
	if selection.Origin == contract.OriginSnapshot {
		origin = contract.OriginSnapshot
	}
	return &contract.SelectionResult{
		PackageID:  packageID,
		Roots:      roots,
		EnabledIDs: tree.FlattenIDs(roots, nil),
		Origin:     origin,
	}, nil
}

func (s *selectionService) Save(ctx context.Context, packageID string, roots []*domain.Node) (result *contract.SaveResult, err error) {
	fields := map[string]any{"package_id": packageID}
	defer observe(ctx, s.observer, "selection-save", time.Now().UTC(), fields, &err)

	result, err = s.save(ctx, packageID, roots)
	if err != nil {
		return nil, err
	}
	fields["ids"] = len(result.IDs)
	fields["queued"] = result.Queued
	return result, nil
}

func (s *selectionService) save(ctx context.Context, packageID string, roots []*domain.Node) (*contract.SaveResult, error) {
	if packageID == "" {
		return nil, ErrPackageIDRequired
	}
	ids := tree.FlattenIDs(roots, nil)
	queued, err := s.sink.Write(ctx, backend.PackageFeaturesPath(packageID), selectionBody{FeatureIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("saving package %s selection: %w", packageID, err)
	}
	return &contract.SaveResult{PackageID: packageID, IDs: ids, Queued: queued}, nil
}

func (s *selectionService) SetIDs(ctx context.Context, packageID string, ids []any) (result *contract.SaveResult, err error) {
	fields := map[string]any{"package_id": packageID, "requested": len(ids)}
	defer observe(ctx, s.observer, "selection-set", time.Now().UTC(), fields, &err)

	current, err := s.marked(ctx, packageID)
	if err != nil {
		return nil, err
	}
	result, err = s.save(ctx, packageID, tree.MarkEnabled(current.Roots, ids))
	if err != nil {
		return nil, err
	}
	fields["ids"] = len(result.IDs)
	return result, nil
}
