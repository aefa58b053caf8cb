package contract

import "github.com/alexanderramin/crudforge/internal/domain"

type EditRequest struct {
	Kind   domain.TreeKind
	ID     string
	Form   map[string]any
	DryRun bool
}

type EditResult struct {
	Kind    domain.TreeKind
	ID      string
	Path    string
	Payload map[string]any
	Queued  bool
	DryRun  bool
}
