package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/taskmaster/internal/adapter/metrics"
	"github.com/pscheid92/taskmaster/internal/domain"
	"github.com/pscheid92/taskmaster/internal/platform/config"
	apperrors "github.com/pscheid92/taskmaster/internal/platform/errors"
	"github.com/pscheid92/taskmaster/web"
)

type appService interface {
	Board(ctx context.Context) domain.Board
	AddTask(ctx context.Context, text string) domain.AddOutcome
	DeleteTask(ctx context.Context, text string) domain.DeleteOutcome
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	templates *template.Template

	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler

	healthChecks []HealthCheck
	clock        clockwork.Clock
	startTime    time.Time
	draining     atomic.Bool
}

// NewServer wires the echo instance. reg may be nil to disable /metrics.
func NewServer(cfg *config.Config, app appService, reg *prometheus.Registry, clock clockwork.Clock, healthChecks ...HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = !cfg.IsProduction()

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		templates:    templates,
		healthChecks: healthChecks,
		clock:        clock,
		startTime:    clock.Now(),
	}

	if reg != nil {
		srv.httpMetrics = metrics.NewHTTPMetrics(reg)
		srv.metricsHandler = metrics.Handler(reg)
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown marks the server as draining, so readiness probes fail, then
// waits for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.draining.Store(true)
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return apperrors.InternalError("failed to render page", err).WithField("template", name)
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
