package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter tracks request counts per client IP in fixed windows. The
// clock is injected so the eviction behavior is testable without wall time.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	now         func() time.Time
	visitors    map[string]*visitor
}

type visitor struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window per IP.
func NewRateLimiter(maxRequests int, window time.Duration, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         now,
		visitors:    make(map[string]*visitor),
	}
}

// Allow records one request for ip and reports whether it is within the
// limit. Expired windows are swept on every call, so the map stays bounded
// by the set of IPs seen within one window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	current := rl.now()
	for key, v := range rl.visitors {
		if current.Sub(v.windowStart) > rl.window {
			delete(rl.visitors, key)
		}
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{windowStart: current}
		rl.visitors[ip] = v
	}
	v.count++
	return v.count <= rl.maxRequests
}

// Middleware rejects over-limit requests with 429. CORS preflights pass
// through unchecked.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}
			if !rl.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Please try again in a minute.")
			}
			return next(c)
		}
	}
}
