// Package server exposes the web-facing surface: submission intake, catalog
// listings, health, and metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"package-directory/internal/catalog"
	"package-directory/internal/common/auth"
	"package-directory/internal/common/config"
	"package-directory/internal/common/logger"
	"package-directory/internal/submission/intake"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP surface and its dependencies.
type Server struct {
	cfg       *config.Config
	intake    *intake.Handler
	pending   *catalog.PendingStore
	published *catalog.PublishedStore
	verifier  TokenVerifier
	logger    logger.Logger

	httpServer *http.Server
}

func New(cfg *config.Config, intakeHandler *intake.Handler, pending *catalog.PendingStore, published *catalog.PublishedStore, log logger.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		intake:    intakeHandler,
		pending:   pending,
		published: published,
		verifier:  newVerifier(cfg),
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      s.Router(),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	return s
}

func newVerifier(cfg *config.Config) TokenVerifier {
	if cfg.Auth.Mode == "github" {
		return auth.NewGitHubClient(cfg.Auth.GitHub.APIBaseURL, config.GetDuration(cfg.Auth.GitHub.Timeout))
	}
	return &JWTVerifier{Secret: cfg.Auth.JWTSecret}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/packages", s.handleListPackages)
		api.GET("/packages/count", s.handlePackageCount)
		api.GET("/packages/:id", s.handleGetPackage)

		authed := api.Group("", authRequired(s.verifier))
		{
			authed.POST("/submissions", s.handleSubmit)
			authed.GET("/my/packages", s.handleMyPackages)
		}
	}

	return router
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
