package metrics

import (
	"net/http"
	"time"

	"github.com/getmockd/odatamock/pkg/httputil"
)

// Middleware records request counts and durations. Requests are labelled by
// the ServeMux pattern that served them so key values never become labels.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := httputil.NewStatusRecorder(w)

		next.ServeHTTP(rec, r)

		m.ObserveRequest(r.Method, httputil.Route(r), rec.Status, time.Since(start))
	})
}
