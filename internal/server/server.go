// Package server serves the web dashboard: an HTML page with three chart
// placeholders and a JSON callback that rebuilds the figures from the log.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/verte-zerg/maildash/internal/dashboard"
	"github.com/verte-zerg/maildash/internal/metrics"
	"github.com/verte-zerg/maildash/internal/model"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8050"

const shutdownTimeout = 5 * time.Second

// Refresher rebuilds the dashboard on demand.
type Refresher interface {
	Refresh(ctx context.Context) (dashboard.Dashboard, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	refresher Refresher
	logger    *zap.Logger
	cfg       model.ServerConfig
	logPath   string
	engine    *gin.Engine
	page      *template.Template
}

// New builds the router. logPath is only shown on the page. The gin mode is
// process-wide and is set by the caller before New.
func New(r Refresher, cfg model.ServerConfig, logPath string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{
		refresher: r,
		logger:    logger,
		cfg:       cfg,
		logPath:   logPath,
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	s.routes(engine)
	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", zap.String("addr", s.cfg.Addr), zap.String("log_path", s.logPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err, ok := <-errCh; ok {
		return fmt.Errorf("failed to serve: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", s.handlePage)
	r.GET("/api/dashboard", s.handleDashboard)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// Unmatched routes are grouped so arbitrary paths do not grow the label set.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(status), latency)
		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
