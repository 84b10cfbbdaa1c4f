package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/odatamock/pkg/catalog"
	"github.com/getmockd/odatamock/pkg/httputil"
	"github.com/getmockd/odatamock/pkg/openapi"
	"github.com/getmockd/odatamock/pkg/requestlog"
)

// Fixed routes outside the OData base path.
const (
	HealthPath  = "/health"
	OpenAPIPath = "/openapi.json"
	MetricsPath = "/metrics"
	AdminPrefix = "/__admin"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	SupportedEntities int    `json:"supported_entities"`
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	s.odata.Register(mux)

	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	mux.Handle("GET "+OpenAPIPath, openapi.Handler(s.OpenAPI))
	mux.Handle("GET "+MetricsPath, s.metrics.Handler())

	mux.HandleFunc("POST "+AdminPrefix+"/reset", s.handleReset)
	mux.HandleFunc("GET "+AdminPrefix+"/collections", s.handleCollections)
	mux.HandleFunc("GET "+AdminPrefix+"/collections/{name}", s.handleCollection)
	mux.HandleFunc("GET "+AdminPrefix+"/stats", s.handleStats)
	mux.HandleFunc("GET "+AdminPrefix+"/requests", s.handleListRequests)
	mux.HandleFunc("GET "+AdminPrefix+"/requests/{id}", s.handleGetRequest)
	mux.HandleFunc("DELETE "+AdminPrefix+"/requests", s.handleClearRequests)
	return mux
}

// OpenAPI describes the collections currently held by the catalog.
func (s *Server) OpenAPI() *openapi3.T {
	return openapi.Build(openapi.Options{
		Version:     s.version,
		BasePath:    s.odata.BasePath(),
		Collections: s.catalog.Names(),
	})
}

// handleHealth handles the liveness probe endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, HealthResponse{Status: "healthy", SupportedEntities: s.catalog.Len()})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, s.service.Reset())
}

func (s *Server) handleCollections(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, s.catalog.Overview())
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	info, err := s.catalog.Info(r.PathValue("name"))
	if err != nil {
		resp := catalog.ToErrorResponse(err)
		httputil.WriteJSON(w, resp.StatusCode, resp)
		return
	}
	httputil.WriteOK(w, info)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	snap := s.counters.Snapshot()
	httputil.WriteOK(w, StatsResponse{
		CountersSnapshot: snap,
		TotalOperations:  snap.TotalOperations(),
		UptimeSeconds:    s.Uptime(),
	})
}

// StatsResponse is the body of GET /__admin/stats.
type StatsResponse struct {
	catalog.CountersSnapshot
	TotalOperations int64 `json:"totalOperations"`
	UptimeSeconds   int   `json:"uptimeSeconds"`
}

// RequestsResponse is the body of GET /__admin/requests.
type RequestsResponse struct {
	Requests []*requestlog.Entry `json:"requests"`
	Count    int                 `json:"count"`
	Total    int                 `json:"total"`
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	entries := s.requests.List(filter)
	httputil.WriteOK(w, RequestsResponse{
		Requests: entries,
		Count:    len(entries),
		Total:    s.requests.Count(),
	})
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	entry := s.requests.Get(r.PathValue("id"))
	if entry == nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "request not found")
		return
	}
	httputil.WriteOK(w, entry)
}

func (s *Server) handleClearRequests(w http.ResponseWriter, _ *http.Request) {
	cleared := s.requests.Count()
	s.requests.Clear()
	httputil.WriteOK(w, map[string]int{"cleared": cleared})
}

// parseRequestFilter reads method, path, collection, status, failed, limit
// and offset from the query string.
func parseRequestFilter(r *http.Request) (*requestlog.Filter, error) {
	q := r.URL.Query()
	f := &requestlog.Filter{
		Method:     q.Get("method"),
		Path:       q.Get("path"),
		Collection: q.Get("collection"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"status", &f.StatusCode},
		{"limit", &f.Limit},
		{"offset", &f.Offset},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", p.name)
		}
		*p.dst = n
	}

	if v := q.Get("failed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("failed must be true or false")
		}
		f.Failed = &b
	}
	return f, nil
}
