package domain

import "time"

// Snapshot is the last raw response body fetched for a backend resource,
// kept so trees can still be rendered when the backend is unreachable.
type Snapshot struct {
	ID   string
	Path string

	// Kind is the tree kind stored at Path, empty for selection resources.
	Kind      TreeKind
	Body      []byte
	FetchedAt time.Time
}

// Age returns how long ago the snapshot was fetched relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// PendingWrite is a backend write captured while offline, replayed by sync.
type PendingWrite struct {
	ID        string
	Method    string
	Path      string
	Body      []byte
	CreatedAt time.Time
	Attempts  int
	LastError string
}
