package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/taskmaster/internal/domain"
	"github.com/pscheid92/taskmaster/internal/platform/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware_RecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/", "200")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.InFlightGauge), 0)
}

func TestHTTPMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/version", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/health/live", "/version", "/metrics"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 0, testutil.CollectAndCount(m.RequestsTotal))
}

func TestHTTPMiddleware_UnmatchedRouteLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/wp-admin", nil), httptest.NewRecorder())

	handler := m.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })
	require.NoError(t, handler(c))

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")), 0)
}

func TestTaskMetrics_RecordAddAndDelete(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTaskMetrics(reg)

	m.RecordAdd(domain.AddOutcomeAdded, 1)
	m.RecordAdd(domain.AddOutcomeAdded, 2)
	m.RecordAdd(domain.AddOutcomeSkippedBlank, 2)
	m.RecordDelete(domain.DeleteOutcomeNotFound, 2)
	m.RecordDelete(domain.DeleteOutcomeDeleted, 1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("add", "added")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("add", "skipped_blank")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete", "deleted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete", "not_found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TasksCurrent), 0)
}

func TestHostnameMetrics_RecordLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHostnameMetrics(reg)

	m.RecordLookup(false, 3*time.Millisecond)
	m.RecordLookup(true, 0)
	m.SetBreakerState(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(HostnameResultResolved)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(HostnameResultFallback)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.BreakerState), 0)
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry(version.Info{Version: "v1.2.3", Commit: "abc123", GoVersion: "go1.26.0"})
	m := NewTaskMetrics(reg)
	m.RecordAdd(domain.AddOutcomeAdded, 1)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "taskmaster_tasks_operations_total")
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, `taskmaster_build_info{commit="abc123",go_version="go1.26.0",version="v1.2.3"} 1`)
}

func TestHTTPMiddleware_TaskRoutesByFinalStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/", func(c echo.Context) error { return c.HTML(http.StatusOK, "board") })
	e.POST("/add", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/") })
	e.POST("/delete", func(c echo.Context) error { return echo.ErrStatusRequestEntityTooLarge })

	requests := []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodPost, "/add"},
		{http.MethodPost, "/delete"},
		{http.MethodGet, "/add"},
		{http.MethodGet, "/nope"},
	}
	for _, r := range requests {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(r.method, r.path, nil))
	}

	count := func(method, route, status string) float64 {
		return testutil.ToFloat64(m.RequestsTotal.WithLabelValues(method, route, status))
	}
	assert.InDelta(t, 1, count(http.MethodGet, "/", "200"), 0)
	assert.InDelta(t, 1, count(http.MethodPost, "/add", "302"), 0)
	assert.InDelta(t, 1, count(http.MethodPost, "/delete", "413"), 0)
	assert.InDelta(t, 1, count(http.MethodGet, "/add", "405"), 0)
	assert.InDelta(t, 1, count(http.MethodGet, unmatchedRoute, "404"), 0)
	assert.Equal(t, 5, testutil.CollectAndCount(m.RequestsTotal))
}

func TestHTTPMiddleware_PlainErrorCountsAsServerError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetPath("/")

	handler := m.Middleware()(func(echo.Context) error { return errors.New("template exploded") })
	require.Error(t, handler(c))

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/", "500")), 0)
}

func TestHTTPMiddleware_CommittedResponseWins(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/add", nil), httptest.NewRecorder())
	c.SetPath("/add")

	handler := m.Middleware()(func(c echo.Context) error {
		_ = c.NoContent(http.StatusBadRequest)
		return errors.New("late failure")
	})
	require.Error(t, handler(c))

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodPost, "/add", "400")), 0)
}
