// internal/catalog/models.go
package catalog

import (
	"time"

	"package-directory/internal/submission"
)

// Package is one published catalog entry. Its id is assigned by the published
// store and is distinct from the package name.
type Package struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Author         string    `json:"author"`
	ProjectType    string    `json:"project_type"`
	CurrentVersion string    `json:"current_version"`
	VersionsTested string    `json:"versions_tested,omitempty"`
	RepositoryURL  string    `json:"repository_url"`
	License        string    `json:"license,omitempty"`
	Tag            string    `json:"tag,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	PublishedAt    time.Time `json:"published_at"`
}

// PendingEntry is the pending store's row form of a submission. The id is the
// submission's correlation key, generated at intake.
type PendingEntry struct {
	ID     string            `json:"id"`
	Record submission.Record `json:"record"`
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Search      string // substring match on name
	Name        string
	Tag         string
	License     string
	ProjectType string
	Author      string
}

// Page is a bounded listing window.
type Page struct {
	Number  int
	PerPage int
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}

// Pagination describes a listing result window.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes the page descriptor for a result set.
func NewPagination(page Page, totalItems int) Pagination {
	totalPages := 0
	if totalItems > 0 && page.PerPage > 0 {
		totalPages = (totalItems + page.PerPage - 1) / page.PerPage
	}
	return Pagination{
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
