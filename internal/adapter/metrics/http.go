package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

var httpLabels = []string{"method", "route", "status_code"}

// HTTPMetrics tracks requests to the board and its task routes.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		// Board renders include a hostname lookup bounded by a 2s default timeout.
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2, 5},
		}, httpLabels),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests, by route and final status.",
		}, httpLabels),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge)
	return m
}

// Middleware records every request except probes and scrapes.
// Requests that match no route share the "unmatched" label.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := routeLabel(c.Path())
			if route == "" {
				return next(c)
			}

			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(statusCode(c, err))
			method := c.Request().Method
			m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
			m.RequestsTotal.WithLabelValues(method, route, status).Inc()
			return err
		}
	}
}

// routeLabel returns "" for routes that are not recorded.
func routeLabel(path string) string {
	switch {
	case path == "":
		return unmatchedRoute
	case path == "/metrics", path == "/version", strings.HasPrefix(path, "/health/"):
		return ""
	default:
		return path
	}
}

// statusCode is the status the client will see. An error returned past this
// middleware has not been written yet; echo's error handler writes it later
// and, like this function, only honours an unwrapped *echo.HTTPError.
func statusCode(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	if httpErr, ok := err.(*echo.HTTPError); ok { //nolint:errorlint // mirrors echo.DefaultHTTPErrorHandler
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
