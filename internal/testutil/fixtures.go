package testutil

import (
	"encoding/json"
	"time"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/google/uuid"
)

// RawNode builds a backend record. Children given as extra records are
// placed under "children".
func RawNode(id any, name string, children ...map[string]any) map[string]any {
	r := map[string]any{"id": id, "name": name, "is_active": 1}
	if len(children) > 0 {
		kids := make([]any, len(children))
		for i, c := range children {
			kids[i] = c
		}
		r["children"] = kids
	}
	return r
}

// JSON marshals v, panicking on failure. Test fixtures only.
func JSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Snapshot options
type SnapshotOption func(*domain.Snapshot)

func WithSnapshotKind(k domain.TreeKind) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Kind = k
	}
}

func WithFetchedAt(t time.Time) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.FetchedAt = t
	}
}

func NewTestSnapshot(path string, body any, opts ...SnapshotOption) *domain.Snapshot {
	s := &domain.Snapshot{
		ID:        uuid.New().String(),
		Path:      path,
		Body:      JSON(body),
		FetchedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestPendingWrite(path string, body any) *domain.PendingWrite {
	return &domain.PendingWrite{
		ID:        uuid.New().String(),
		Method:    "PUT",
		Path:      path,
		Body:      JSON(body),
		CreatedAt: time.Now().UTC(),
	}
}
