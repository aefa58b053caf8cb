package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/crudforge/internal/db"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/google/uuid"
)

// SQLiteOutboxRepo implements OutboxRepo using a SQLite database.
type SQLiteOutboxRepo struct {
	db db.DBTX
}

// NewSQLiteOutboxRepo creates a new SQLiteOutboxRepo.
func NewSQLiteOutboxRepo(conn db.DBTX) *SQLiteOutboxRepo {
	return &SQLiteOutboxRepo{db: conn}
}

func (r *SQLiteOutboxRepo) Enqueue(ctx context.Context, w *domain.PendingWrite) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = nowUTC()
	}
	query := `INSERT INTO pending_writes (id, method, path, body, created_at, attempts, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Method,
		w.Path,
		w.Body,
		formatTime(w.CreatedAt),
		w.Attempts,
		w.LastError,
	)
	if err != nil {
		return fmt.Errorf("enqueueing write %s %s: %w", w.Method, w.Path, err)
	}
	return nil
}

func (r *SQLiteOutboxRepo) List(ctx context.Context) ([]*domain.PendingWrite, error) {
	query := `SELECT id, method, path, body, created_at, attempts, last_error
		FROM pending_writes ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending writes: %w", err)
	}
	defer rows.Close()

	var out []*domain.PendingWrite
	for rows.Next() {
		var w domain.PendingWrite
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Method, &w.Path, &w.Body, &createdAt, &w.Attempts, &w.LastError); err != nil {
			return nil, fmt.Errorf("scanning pending write row: %w", err)
		}
		w.CreatedAt = parseTime(createdAt)
		out = append(out, &w)
	}
	return out, rows.Err()
}

func (r *SQLiteOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pending_writes SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		reason, id)
	return affectedOne(res, err, "pending write", id)
}

func (r *SQLiteOutboxRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_writes WHERE id = ?`, id)
	return affectedOne(res, err, "pending write", id)
}

func (r *SQLiteOutboxRepo) DeleteByPath(ctx context.Context, path string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_writes WHERE path = ?`, path)
	if err != nil {
		return 0, fmt.Errorf("deleting pending writes for %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting pending writes for %s: %w", path, err)
	}
	return int(n), nil
}

func affectedOne(res sql.Result, err error, what, id string) error {
	if err != nil {
		return fmt.Errorf("updating %s: %w", what, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
