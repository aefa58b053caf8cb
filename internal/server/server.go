// Package server exposes the tree engine over HTTP for frontends.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/logging"
	"github.com/alexanderramin/crudforge/internal/metrics"
	"github.com/alexanderramin/crudforge/internal/payload"
	"github.com/alexanderramin/crudforge/internal/repository"
	"github.com/alexanderramin/crudforge/internal/service"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Pinger reports backend reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves trees, selections and edits.
type Server struct {
	trees     service.TreeService
	selection service.SelectionService
	edit      service.EditService
	sync      service.SyncService
	pinger    Pinger
	log       *zap.Logger
}

// Deps holds the services a Server delegates to. Pinger may be nil.
type Deps struct {
	Trees     service.TreeService
	Selection service.SelectionService
	Edit      service.EditService
	Sync      service.SyncService
	Pinger    Pinger
	Log       *zap.Logger
}

func New(d Deps) *Server {
	return &Server{
		trees:     d.Trees,
		selection: d.Selection,
		edit:      d.Edit,
		sync:      d.Sync,
		pinger:    d.Pinger,
		log:       logging.OrNop(d.Log),
	}
}

// Handler returns the HTTP handler with logging and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/trees/{kind}", s.handleTree)
	mux.HandleFunc("GET /api/trees/{kind}/search", s.handleSearch)
	mux.HandleFunc("GET /api/packages/{id}/features", s.handleSelection)
	mux.HandleFunc("PUT /api/packages/{id}/features", s.handleSaveSelection)
	mux.HandleFunc("POST /api/normalize", s.handleNormalize)
	mux.HandleFunc("PUT /api/{kind}/{id}", s.handleEdit)
	mux.HandleFunc("POST /api/sync", s.handleSync)

	// metrics sits inside logging so it sees the request the mux matched.
	return logging.Middleware(s.log)(metrics.Middleware(mux))
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "backend": "unknown"}
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			status["backend"] = "down"
			logging.FromContext(r.Context(), s.log).Warn("backend ping failed", zap.Error(err))
		} else {
			status["backend"] = "up"
		}
	}
	writeJSON(w, http.StatusOK, status)
}

// treeRequest reads the tree kind from the path and scope/view from the
// query string.
func treeRequest(r *http.Request) (contract.TreeRequest, error) {
	kind, ok := domain.ParseTreeKind(r.PathValue("kind"))
	if !ok {
		return contract.TreeRequest{}, fmt.Errorf("%w: %q", service.ErrUnknownTreeKind, r.PathValue("kind"))
	}
	req := contract.NewTreeRequest(kind)
	req.ScopeID = r.URL.Query().Get("scope")
	req.View = domain.ParseTreeView(r.URL.Query().Get("view"))
	return req, nil
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	req, err := treeRequest(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	res, err := s.trees.Tree(r.Context(), req)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Kind:      res.Kind,
		View:      res.View,
		Origin:    res.Origin,
		FetchedAt: res.FetchedAt,
		Count:     res.NodeCount,
		Roots:     res.Roots,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := treeRequest(r)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := s.trees.Search(r.Context(), req, r.URL.Query().Get("q"), limit)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	out := make([]searchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, searchHit{
			ID:    h.Node.ID,
			Name:  h.Node.Name,
			Code:  h.Node.Code,
			Path:  h.Path,
			Score: h.Score,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": out})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	res, err := s.selection.Marked(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{
		PackageID:  res.PackageID,
		Origin:     res.Origin,
		EnabledIDs: res.EnabledIDs,
		Roots:      res.Roots,
	})
}

func (s *Server) handleSaveSelection(w http.ResponseWriter, r *http.Request) {
	var body saveSelectionRequest
	if err := decodeBody(r, &body); err != nil {
		s.sendError(w, r, err)
		return
	}

	packageID := r.PathValue("id")
	var (
		res *contract.SaveResult
		err error
	)
	switch {
	case body.Roots != nil:
		res, err = s.selection.Save(r.Context(), packageID, body.Roots)
	case body.IDs != nil:
		res, err = s.selection.SetIDs(r.Context(), packageID, body.IDs)
	case body.FeatureIDs != nil:
		res, err = s.selection.SetIDs(r.Context(), packageID, body.FeatureIDs)
	default:
		err = badRequest(`body needs "roots" or "ids"`)
	}
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{PackageID: res.PackageID, IDs: res.IDs, Queued: res.Queued})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var form map[string]any
	if err := decodeBody(r, &form); err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload.Normalize(form))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.ParseTreeKind(r.PathValue("kind"))
	if !ok {
		s.sendError(w, r, fmt.Errorf("%w: %q", service.ErrUnknownTreeKind, r.PathValue("kind")))
		return
	}
	var form map[string]any
	if err := decodeBody(r, &form); err != nil {
		s.sendError(w, r, err)
		return
	}
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	res, err := s.edit.Update(r.Context(), contract.EditRequest{
		Kind:   kind,
		ID:     r.PathValue("id"),
		Form:   form,
		DryRun: dryRun,
	})
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse{
		Path:    res.Path,
		Payload: res.Payload,
		Queued:  res.Queued,
		DryRun:  res.DryRun,
	})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var body syncRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil {
			s.sendError(w, r, err)
			return
		}
	}
	res, err := s.sync.Sync(r.Context(), contract.SyncRequest{
		ModuleIDs:  body.ModuleIDs,
		PackageIDs: body.PackageIDs,
	})
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSyncResponse(res))
}

// decodeBody reads a JSON body keeping numbers as json.Number.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logging.FromContext(r.Context(), s.log)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: status})
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// statusFor maps service and backend errors onto HTTP status codes.
// Backend 4xx answers keep their status; anything that means the backend
// could not answer is a gateway error.
func statusFor(err error) int {
	var reqErr *requestError
	var statusErr *backend.StatusError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, service.ErrUnknownTreeKind),
		errors.Is(err, service.ErrPackageIDRequired),
		errors.Is(err, backend.ErrScopeRequired):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrOffline):
		return http.StatusServiceUnavailable
	case errors.Is(err, backend.ErrTimeout):
		return http.StatusGatewayTimeout
	case backend.Unreachable(err), errors.Is(err, backend.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.As(err, &statusErr):
		if statusErr.Status >= 400 && statusErr.Status < 500 {
			return statusErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
