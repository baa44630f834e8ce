// internal/catalog/schema.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the catalog tables when they do not exist yet. Names
// are unique within each table; cross-table uniqueness is enforced by the
// intake handler's existence probe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS not_approved (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL UNIQUE,
			author          TEXT NOT NULL,
			project_type    TEXT NOT NULL,
			current_version TEXT NOT NULL,
			versions_tested TEXT NOT NULL DEFAULT '',
			repository_url  TEXT NOT NULL,
			license         TEXT NOT NULL DEFAULT '',
			tag             TEXT NOT NULL DEFAULT '',
			icon            TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS packages (
			id              BIGSERIAL PRIMARY KEY,
			name            TEXT NOT NULL UNIQUE,
			author          TEXT NOT NULL,
			project_type    TEXT NOT NULL,
			current_version TEXT NOT NULL,
			versions_tested TEXT NOT NULL DEFAULT '',
			repository_url  TEXT NOT NULL,
			license         TEXT NOT NULL DEFAULT '',
			tag             TEXT NOT NULL DEFAULT '',
			icon            TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL,
			published_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS packages_author_idx ON packages (author)`,
		`CREATE INDEX IF NOT EXISTS packages_tag_idx ON packages (tag)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure catalog schema: %w", err)
		}
	}
	return nil
}
