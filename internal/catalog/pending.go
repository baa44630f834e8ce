// internal/catalog/pending.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"package-directory/internal/submission"
)

// PendingStore holds submissions awaiting review. Rows are created by the
// intake handler and deleted by the resolution handler on either outcome.
type PendingStore struct {
	db *sql.DB
}

func NewPendingStore(db *sql.DB) *PendingStore {
	return &PendingStore{db: db}
}

// Insert persists a pending submission under its correlation key.
func (s *PendingStore) Insert(ctx context.Context, id string, r submission.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO not_approved (
			id, name, author, project_type, current_version,
			versions_tested, repository_url, license, tag, icon, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id,
		r.Name,
		r.Author,
		r.ProjectType,
		r.CurrentVersion,
		r.VersionsTested,
		r.RepositoryURL,
		r.License,
		r.Tag,
		r.Icon,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pending entry: %w", err)
	}
	return nil
}

// NameTaken reports whether a name exists in either the pending or the
// published namespace. Names are unique across both.
func (s *PendingStore) NameTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM not_approved WHERE name = $1
			UNION
			SELECT 1 FROM packages WHERE name = $1
		)`, name).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("name lookup failed: %w", err)
	}
	return taken, nil
}

// DeleteTx removes a pending entry inside an existing transaction and
// returns the number of rows removed. The resolution handler uses the row
// count as the race arbiter: zero rows means another resolution already won.
func (s *PendingStore) DeleteTx(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM not_approved WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete pending entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete pending entry rows: %w", err)
	}
	return n, nil
}

// Get fetches one pending entry by correlation key.
func (s *PendingStore) Get(ctx context.Context, id string) (*PendingEntry, error) {
	var e PendingEntry
	e.ID = id
	err := s.db.QueryRowContext(ctx, `
		SELECT name, author, project_type, current_version,
		       versions_tested, repository_url, license, tag, icon, created_at
		FROM not_approved WHERE id = $1`, id).Scan(
		&e.Record.Name,
		&e.Record.Author,
		&e.Record.ProjectType,
		&e.Record.CurrentVersion,
		&e.Record.VersionsTested,
		&e.Record.RepositoryURL,
		&e.Record.License,
		&e.Record.Tag,
		&e.Record.Icon,
		&e.Record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Count reports the number of submissions awaiting review.
func (s *PendingStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM not_approved`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending entries: %w", err)
	}
	return n, nil
}
