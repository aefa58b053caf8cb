package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/crudforge/internal/db"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/google/uuid"
)

// snapshotColumns is the canonical SELECT column list for snapshots.
const snapshotColumns = `id, path, kind, body, fetched_at`

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.FetchedAt.IsZero() {
		s.FetchedAt = nowUTC()
	}
	query := `INSERT INTO snapshots (id, path, kind, body, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			body = excluded.body,
			fetched_at = excluded.fetched_at`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Path,
		string(s.Kind),
		s.Body,
		formatTime(s.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", s.Path, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Get(ctx context.Context, path string) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE path = ?`
	s, err := scanSnapshot(r.db.QueryRowContext(ctx, query, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	return s, nil
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context) ([]*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY path`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, path string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE path = ?`, path)
	return affectedOne(res, err, "snapshot", path)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var kind, fetchedAt string
	if err := row.Scan(&s.ID, &s.Path, &kind, &s.Body, &fetchedAt); err != nil {
		return nil, err
	}
	s.Kind = domain.TreeKind(kind)
	s.FetchedAt = parseTime(fetchedAt)
	return &s, nil
}
