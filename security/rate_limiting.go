package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles seat claim traffic per client IP with a redis
// fixed window. Claim storms around popular seats are expected; the
// limiter keeps one client from monopolizing the lock queue.
type RateLimiter struct {
	redis     *redis.Client
	limit     int64
	window    time.Duration
	keyPrefix string
}

// NewRateLimiter allows limit requests per window per client. A nil redis
// client disables limiting.
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:     redisClient,
		limit:     int64(limit),
		window:    window,
		keyPrefix: "ratelimit:claim:",
	}
}

// ClaimRateLimit is the middleware applied to the seat claim endpoint.
func (r *RateLimiter) ClaimRateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r == nil || r.redis == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := r.keyPrefix + c.RealIP()

			count, err := r.redis.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not block claims.
				return next(c)
			}
			if count == 1 {
				r.redis.Expire(ctx, key, r.window)
			}
			if count > r.limit {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": fmt.Sprintf("rate limit exceeded, retry after %s", r.window),
				})
			}

			return next(c)
		}
	}
}
