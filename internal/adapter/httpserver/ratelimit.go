package httpserver

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apperrors "github.com/pscheid92/taskmaster/internal/platform/errors"
	"golang.org/x/time/rate"
)

const rateLimiterExpiry = 5 * time.Minute

// newMutationLimiter throttles task changes per client IP. The returned
// middleware is mounted on both /add and /delete and holds one bucket per IP,
// so alternating between the routes buys no extra budget. The board is never
// throttled.
func newMutationLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		},
	)
	retryAfter := retryAfterSeconds(ratePerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			slog.DebugContext(c.Request().Context(), "Task change denied", "client_ip", identifier, "route", c.Path())
			c.Response().Header().Set("Retry-After", retryAfter)
			return apperrors.RateLimitedError("too many task changes, retry later").
				WithField("client_ip", identifier)
		},
	})
}

// retryAfterSeconds is the time one token takes to refill, rounded up.
func retryAfterSeconds(ratePerSecond float64) string {
	secs := int(math.Ceil(1 / ratePerSecond))
	return strconv.Itoa(max(secs, 1))
}
