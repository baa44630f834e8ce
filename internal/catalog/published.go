// internal/catalog/published.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"package-directory/internal/submission"
)

// PublishedStore holds moderator-approved catalog entries. Rows are created
// only by the resolution handler on approval and are never deleted here.
type PublishedStore struct {
	db *sql.DB
}

func NewPublishedStore(db *sql.DB) *PublishedStore {
	return &PublishedStore{db: db}
}

// InsertTx inserts an approved submission inside an existing transaction and
// returns the generated package id.
func (s *PublishedStore) InsertTx(ctx context.Context, tx *sql.Tx, r submission.Record) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO packages (
			name, author, project_type, current_version,
			versions_tested, repository_url, license, tag, icon,
			created_at, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
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
		time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert published entry: %w", err)
	}
	return id, nil
}

// Count reports the total number of published packages.
func (s *PublishedStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	return n, nil
}

// GetByID fetches a single package by its generated id.
func (s *PublishedStore) GetByID(ctx context.Context, id int64) (*Package, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM packages WHERE id = $1`, id)
	return scanPackage(row)
}

// GetByName fetches a single package by name.
func (s *PublishedStore) GetByName(ctx context.Context, name string) (*Package, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM packages WHERE name = $1`, name)
	return scanPackage(row)
}

// List returns one page of packages matching the filter plus the total match
// count. Filters compose into parameterized WHERE clauses; the substring
// search matches on name.
func (s *PublishedStore) List(ctx context.Context, f Filter, page Page) ([]Package, int, error) {
	whereSQL, params := buildWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM packages` + whereSQL
	if err := s.db.QueryRowContext(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count filtered packages: %w", err)
	}

	dataQuery := fmt.Sprintf(
		selectColumns+` FROM packages%s ORDER BY id LIMIT $%d OFFSET $%d`,
		whereSQL, len(params)+1, len(params)+2,
	)
	dataParams := append(params, f.limitParam(page.PerPage), page.Offset())

	rows, err := s.db.QueryContext(ctx, dataQuery, dataParams...)
	if err != nil {
		return nil, 0, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	items := make([]Package, 0, page.PerPage)
	for rows.Next() {
		p, err := scanPackageRows(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate packages: %w", err)
	}

	return items, total, nil
}

const selectColumns = `
	SELECT id, name, author, project_type, current_version,
	       versions_tested, repository_url, license, tag, icon,
	       created_at, published_at`

// buildWhere composes parameterized WHERE clauses from the filter.
func buildWhere(f Filter) (string, []interface{}) {
	clauses := []string{}
	params := []interface{}{}

	add := func(clause string, value interface{}) {
		params = append(params, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(params)))
	}

	if f.Search != "" {
		add("name LIKE $%d", "%"+f.Search+"%")
	}
	if f.Name != "" {
		add("name = $%d", f.Name)
	}
	if f.Tag != "" {
		add("tag = $%d", f.Tag)
	}
	if f.License != "" {
		add("license = $%d", f.License)
	}
	if f.ProjectType != "" {
		add("project_type = $%d", f.ProjectType)
	}
	if f.Author != "" {
		add("author = $%d", f.Author)
	}

	if len(clauses) == 0 {
		return "", params
	}

	whereSQL := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		whereSQL += " AND " + c
	}
	return whereSQL, params
}

func (f Filter) limitParam(perPage int) int {
	if perPage <= 0 {
		return 10
	}
	return perPage
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInto(scanner rowScanner) (*Package, error) {
	var p Package
	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Author,
		&p.ProjectType,
		&p.CurrentVersion,
		&p.VersionsTested,
		&p.RepositoryURL,
		&p.License,
		&p.Tag,
		&p.Icon,
		&p.CreatedAt,
		&p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPackage(row *sql.Row) (*Package, error) {
	return scanInto(row)
}

func scanPackageRows(rows *sql.Rows) (*Package, error) {
	p, err := scanInto(rows)
	if err != nil {
		return nil, fmt.Errorf("scan package row: %w", err)
	}
	return p, nil
}
