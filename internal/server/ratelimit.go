package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// contactRateLimiter limits contact submissions per source IP using Echo's
// in-memory token bucket store. The configured window/max pair is mapped to
// a refill rate with the full window as burst.
func (s *Server) contactRateLimiter() echo.MiddlewareFunc {
	limit := rate.Limit(float64(s.config.RateLimitMax) / s.config.RateLimitWindow.Seconds())

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      limit,
			Burst:     s.config.RateLimitMax,
			ExpiresIn: 3 * s.config.RateLimitWindow,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.InternalError("failed to identify request source", err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apperrors.RateLimitError("Too many contact requests, please try again later")
		},
	})
}
