package httpserver

import (
	"context"
	"html/template"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/taskmaster/internal/domain"
	"github.com/pscheid92/taskmaster/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	boardFn      func(ctx context.Context) domain.Board
	addTaskFn    func(ctx context.Context, text string) domain.AddOutcome
	deleteTaskFn func(ctx context.Context, text string) domain.DeleteOutcome

	added   []string
	deleted []string
}

func (m *mockAppService) Board(ctx context.Context) domain.Board {
	if m.boardFn != nil {
		return m.boardFn(ctx)
	}
	return domain.Board{Hostname: domain.ResolvedHostname("test-node")}
}

func (m *mockAppService) AddTask(ctx context.Context, text string) domain.AddOutcome {
	m.added = append(m.added, text)
	if m.addTaskFn != nil {
		return m.addTaskFn(ctx, text)
	}
	return domain.AddOutcomeAdded
}

func (m *mockAppService) DeleteTask(ctx context.Context, text string) domain.DeleteOutcome {
	m.deleted = append(m.deleted, text)
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, text)
	}
	return domain.DeleteOutcomeDeleted
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("index.html").Parse(
		`Node {{.Hostname}} ({{.Count}}){{range .Tasks}}|{{.}}{{end}}`))

	clock := clockwork.NewFakeClock()

	srv := &Server{
		echo:      echo.New(),
		config:    &config.Config{Port: "8080", MaxBodySize: "64K"},
		app:       app,
		templates: tmpl,
		clock:     clock,
		startTime: clock.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withConfig(mutate func(*config.Config)) func(*Server) {
	return func(s *Server) {
		mutate(s.config)
	}
}

func withTemplates(tmpl *template.Template) func(*Server) {
	return func(s *Server) {
		s.templates = tmpl
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

// brokenTemplate parses but fails on execution.
func brokenTemplate(t *testing.T) *template.Template {
	t.Helper()
	return template.Must(template.New("index.html").Parse(`{{template "missing"}}`))
}
