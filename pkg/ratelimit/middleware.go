package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/getmockd/odatamock/pkg/httputil"
)

// ExemptFunc reports whether a request bypasses the limiter.
type ExemptFunc func(r *http.Request) bool

// Middleware enforces per-IP rate limiting. A nil limiter passes every
// request through.
func Middleware(limiter *PerIPLimiter, exempt ExemptFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt != nil && exempt(r) {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetOrRetry := limiter.Allow(limiter.ClientIP(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetOrRetry, 10))

			if !allowed {
				h.Set("Retry-After", strconv.FormatInt(resetOrRetry, 10))
				httputil.WriteTooManyRequests(w, "rate_limit_exceeded", "Too many requests. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
