package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/tree"
	"github.com/sahilm/fuzzy"
)

type treeService struct {
	source         Source
	activeDefaults map[domain.TreeKind]bool
	observer       UseCaseObserver
}

// NewTreeService builds canonical trees from backend resources.
// activeDefaults overrides the schema's is_active default per kind.
func NewTreeService(source Source, activeDefaults map[domain.TreeKind]bool, observers ...UseCaseObserver) TreeService {
	return &treeService{
		source:         source,
		activeDefaults: activeDefaults,
		observer:       useCaseObserverOrNoop(observers),
	}
}

func (s *treeService) schema(kind domain.TreeKind) (tree.Schema, error) {
	sc, ok := tree.SchemaFor(kind)
	if !ok {
		return tree.Schema{}, fmt.Errorf("%w: %q", ErrUnknownTreeKind, kind)
	}
	if def, ok := s.activeDefaults[kind]; ok {
		sc = sc.WithActiveDefault(def)
	}
	return sc, nil
}

func (s *treeService) Tree(ctx context.Context, req contract.TreeRequest) (result *contract.TreeResult, err error) {
	fields := map[string]any{"kind": string(req.Kind), "view": string(req.View)}
	defer observe(ctx, s.observer, "tree", time.Now().UTC(), fields, &err)

	result, err = s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["nodes"] = result.NodeCount
	fields["origin"] = string(result.Origin)
	return result, nil
}

// build fetches, maps, nests, sorts and filters a tree.
func (s *treeService) build(ctx context.Context, req contract.TreeRequest) (*contract.TreeResult, error) {
	sc, err := s.schema(req.Kind)
	if err != nil {
		return nil, err
	}
	path, err := backend.TreePath(req.Kind, req.ScopeID)
	if err != nil {
		return nil, err
	}
	fetched, err := s.source.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s tree: %w", req.Kind, err)
	}

	roots := tree.MapTree(tree.ExtractRawNodes(fetched.Body), sc)
	if tree.NeedsNesting(roots) {
		roots = tree.Nest(roots)
	}
	view := domain.ParseTreeView(string(req.View))
	roots = tree.ApplyView(tree.SortByOrder(roots), view)

	return &contract.TreeResult{
		Kind:      req.Kind,
		ScopeID:   req.ScopeID,
		View:      view,
		Roots:     roots,
		NodeCount: tree.Count(roots),
		Origin:    fetched.Origin,
		FetchedAt: fetched.FetchedAt,
	}, nil
}

func (s *treeService) Search(ctx context.Context, req contract.TreeRequest, query string, limit int) (hits []contract.SearchHit, err error) {
	fields := map[string]any{"kind": string(req.Kind), "query": query}
	defer observe(ctx, s.observer, "search", time.Now().UTC(), fields, &err)

	result, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	hits = searchNodes(result.Roots, query, limit)
	fields["hits"] = len(hits)
	return hits, nil
}

// searchEntries adapts flattened nodes to fuzzy.Source.
type searchEntries []searchEntry

type searchEntry struct {
	node *domain.Node
	path []string
}

func (e searchEntries) String(i int) string {
	return e[i].node.Label()
}

func (e searchEntries) Len() int { return len(e) }

// searchNodes fuzzy matches node names, best score first. An empty query
// lists nodes in tree order. limit <= 0 means no limit.
func searchNodes(roots []*domain.Node, query string, limit int) []contract.SearchHit {
	var entries searchEntries
	var trail []string
	for _, e := range tree.Flatten(roots) {
		if e.Depth < len(trail) {
			trail = trail[:e.Depth]
		}
		entries = append(entries, searchEntry{node: e.Node, path: append([]string(nil), trail...)})
		trail = append(trail, e.Node.Name)
	}

	hits := []contract.SearchHit{}
	query = strings.TrimSpace(query)
	if query == "" {
		for _, e := range entries {
			if limit > 0 && len(hits) >= limit {
				break
			}
			hits = append(hits, contract.SearchHit{Node: e.node, Path: e.path})
		}
		return hits
	}

	for _, m := range fuzzy.FindFrom(query, entries) {
		if limit > 0 && len(hits) >= limit {
			break
		}
		e := entries[m.Index]
		hits = append(hits, contract.SearchHit{
			Node:           e.node,
			Path:           e.path,
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return hits
}
