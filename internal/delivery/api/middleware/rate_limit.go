package middleware

import (
	"log/slog"
	"math"
	"strconv"

	deliverycontext "gatekeeper/internal/delivery/context"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles credential endpoints per client IP and route.
type RateLimitMiddleware struct {
	throttle service.AttemptThrottle
	logger   *slog.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(throttle service.AttemptThrottle, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{throttle: throttle, logger: logger}
}

// Limit rejects the request with ErrTooManyRequests once the window budget is spent.
// Backend failures let the request through.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Path() + ":" + c.RealIP()
		ctx := c.Request().Context()

		allowed, retryAfter, err := m.throttle.Allow(ctx, key)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Warn("Rate limit check failed, allowing request",
				slog.String("error", err.Error()),
			)

			return next(c)
		}

		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds > 0 {
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
			}

			return domainerrors.ErrTooManyRequests
		}

		return next(c)
	}
}
