package engine

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/odatamock/pkg/httputil"
	"github.com/getmockd/odatamock/pkg/keyexpr"
	"github.com/getmockd/odatamock/pkg/ratelimit"
	"github.com/getmockd/odatamock/pkg/requestlog"
)

// buildHandler wraps the routes with the middleware chain.
// The order is: metrics -> access log -> request journal -> rate limit ->
// content type -> routes
func (s *Server) buildHandler() http.Handler {
	var h http.Handler = s.routes()

	h = jsonContentType(h)
	h = ratelimit.Middleware(s.limiter, isProbe)(h)
	h = requestlog.Middleware(s.requests,
		requestlog.WithDescribe(describeRequest),
		requestlog.WithSkip(isInternal),
	)(h)
	h = s.accessLog(h)
	h = s.metrics.Middleware(h)
	return h
}

// isProbe reports whether r targets an infrastructure endpoint. Probes skip
// rate limiting and log at debug level.
func isProbe(r *http.Request) bool {
	return r.URL.Path == HealthPath || r.URL.Path == MetricsPath
}

// isInternal reports whether r targets a probe or the admin API. Those are
// kept out of the request journal.
func isInternal(r *http.Request) bool {
	return isProbe(r) || r.URL.Path == OpenAPIPath || strings.HasPrefix(r.URL.Path, AdminPrefix+"/")
}

// describeRequest names the entity set and key addressed by an OData request.
func describeRequest(r *http.Request) (string, string) {
	seg := r.PathValue("segment")
	if seg == "" {
		return "", ""
	}
	k := keyexpr.Split(seg)
	return k.Entity, k.Key
}

// jsonContentType defaults every response to application/json. Handlers
// that write another type (the metrics exposition) override it.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := httputil.NewStatusRecorder(w)

		next.ServeHTTP(rec, r)

		s.log.Log(r.Context(), accessLevel(r, rec.Status), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status,
			"bytes", rec.Bytes,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

func accessLevel(r *http.Request, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case isProbe(r):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
