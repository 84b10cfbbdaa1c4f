package requestlog

import (
	"net/http"
	"time"

	"github.com/getmockd/odatamock/pkg/httputil"
)

// DescribeFunc extracts the addressed entity set and raw key text from a
// request that has been served.
type DescribeFunc func(r *http.Request) (collection, key string)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middleware)

type middleware struct {
	describe DescribeFunc
	skip     func(r *http.Request) bool
}

// WithDescribe sets how entries get their Collection and Key.
func WithDescribe(fn DescribeFunc) MiddlewareOption {
	return func(m *middleware) { m.describe = fn }
}

// WithSkip excludes requests for which fn returns true.
func WithSkip(fn func(r *http.Request) bool) MiddlewareOption {
	return func(m *middleware) { m.skip = fn }
}

// Middleware records every request it serves into l. A nil l passes
// requests through.
func Middleware(l Logger, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	m := &middleware{}
	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.skip != nil && m.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := httputil.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)

			entry := &Entry{
				Timestamp:      start,
				Method:         r.Method,
				Path:           r.URL.Path,
				QueryString:    r.URL.RawQuery,
				Route:          httputil.Route(r),
				BodySize:       max(r.ContentLength, 0),
				RemoteAddr:     r.RemoteAddr,
				ResponseStatus: rec.Status,
				ResponseSize:   rec.Bytes,
				DurationMs:     time.Since(start).Milliseconds(),
			}
			if m.describe != nil {
				entry.Collection, entry.Key = m.describe(r)
			}
			l.Log(entry)
		})
	}
}
