// internal/server/packages.go
package server

import (
	"database/sql"
	"net/http"
	"strconv"

	"package-directory/internal/catalog"
	"package-directory/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// handleListPackages serves the public catalog listing with pagination and
// optional filters.
func (s *Server) handleListPackages(c *gin.Context) {
	page := s.parsePage(c)
	filter := catalog.Filter{
		Search:      c.Query("search"),
		Name:        c.Query("name"),
		Tag:         c.Query("tag"),
		License:     c.Query("license"),
		ProjectType: c.Query("project_type"),
	}

	packages, total, err := s.published.List(c.Request.Context(), filter, page)
	if err != nil {
		abortWithError(c, errors.NewStorageError("list packages", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages":   packages,
		"pagination": catalog.NewPagination(page, total),
	})
}

func (s *Server) handlePackageCount(c *gin.Context) {
	published, err := s.published.Count(c.Request.Context())
	if err != nil {
		abortWithError(c, errors.NewStorageError("count packages", err))
		return
	}
	pending, err := s.pending.Count(c.Request.Context())
	if err != nil {
		abortWithError(c, errors.NewStorageError("count pending", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"published": published,
		"pending":   pending,
	})
}

func (s *Server) handleGetPackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errors.NewValidationFailedError("package id must be an integer"))
		return
	}

	pkg, err := s.published.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "NOT_FOUND", "message": "no such package"},
		})
		return
	}
	if err != nil {
		abortWithError(c, errors.NewStorageError("get package", err))
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// handleMyPackages lists the caller's own published packages.
func (s *Server) handleMyPackages(c *gin.Context) {
	ident := callerIdentity(c)
	if ident == nil {
		abortWithError(c, errors.NewUnauthenticatedError("no caller identity"))
		return
	}

	page := s.parsePage(c)
	packages, total, err := s.published.List(c.Request.Context(), catalog.Filter{Author: ident.ID}, page)
	if err != nil {
		abortWithError(c, errors.NewStorageError("list own packages", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages":   packages,
		"pagination": catalog.NewPagination(page, total),
	})
}

// parsePage reads page and per_page query parameters, clamping per_page to
// the configured maximum.
func (s *Server) parsePage(c *gin.Context) catalog.Page {
	page := catalog.Page{
		Number:  1,
		PerPage: s.cfg.Catalog.DefaultPerPage,
	}
	if page.PerPage <= 0 {
		page.PerPage = 10
	}

	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			page.Number = n
		}
	}
	if raw := c.Query("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			page.PerPage = n
		}
	}

	maxPerPage := s.cfg.Catalog.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = 100
	}
	if page.PerPage > maxPerPage {
		page.PerPage = maxPerPage
	}
	return page
}
