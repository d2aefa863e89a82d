package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/pkg/metrics"
)

// RateLimit throttles a route under scope, keyed by the authenticated user or
// the client IP. A failing limiter lets the request through.
func RateLimit(limiter ports.RateLimiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get("user_id").(string)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			ok, err := limiter.Allow(c.Request().Context(), scope, key)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
