package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		path       TEXT NOT NULL UNIQUE,
		body       BLOB NOT NULL,
		fetched_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS pending_writes (
		id         TEXT PRIMARY KEY,
		method     TEXT NOT NULL CHECK(method IN ('PUT','POST','PATCH','DELETE')),
		path       TEXT NOT NULL,
		body       BLOB,
		created_at TEXT NOT NULL,
		attempts   INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_pending_writes_created ON pending_writes(created_at)`,

	// Tree kind of the snapshot, empty for selection resources.
	`ALTER TABLE snapshots ADD COLUMN kind TEXT NOT NULL DEFAULT ''`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_kind ON snapshots(kind)`,
}
