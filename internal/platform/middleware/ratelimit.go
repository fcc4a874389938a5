package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wellcare/wellcare/internal/platform/auth"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
	}
}

// bucket tracks the token balance for one caller.
type bucket struct {
	tokens float64
	last   time.Time
}

const bucketIdleEvict = 10 * time.Minute

// limiter hands out tokens from per-caller buckets. Buckets idle for
// longer than bucketIdleEvict are dropped during the periodic sweep.
type limiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	buckets map[string]*bucket
	sweepAt time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		sweepAt: time.Now().Add(bucketIdleEvict),
	}
}

// take refills the caller's bucket and consumes one token. When the bucket
// is empty it instead reports the wait until the next token.
func (l *limiter) take(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.sweepAt) {
		for k, b := range l.buckets {
			if now.Sub(b.last) > bucketIdleEvict {
				delete(l.buckets, k)
			}
		}
		l.sweepAt = now.Add(bucketIdleEvict)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.BurstSize), last: now}
		l.buckets[key] = b
	}

	b.tokens = math.Min(float64(l.cfg.BurstSize),
		b.tokens+now.Sub(b.last).Seconds()*l.cfg.RequestsPerSecond)
	b.last = now

	if b.tokens < 1 {
		if l.cfg.RequestsPerSecond <= 0 {
			return false, time.Second
		}
		return false, time.Duration((1 - b.tokens) / l.cfg.RequestsPerSecond * float64(time.Second))
	}
	b.tokens--
	return true, 0
}

// RateLimit returns a rate limiting middleware keyed by the authenticated
// principal, falling back to client IP for unauthenticated routes.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := newLimiter(cfg)
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := auth.UserIDFromContext(c.Request().Context())
			if key == "" {
				key = c.RealIP()
			}

			ok, wait := l.take(key)
			c.Response().Header().Set("X-RateLimit-Limit", limit)
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
