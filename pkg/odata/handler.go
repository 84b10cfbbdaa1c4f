package odata

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getmockd/odatamock/pkg/catalog"
	"github.com/getmockd/odatamock/pkg/httputil"
	"github.com/getmockd/odatamock/pkg/keyexpr"
	"github.com/getmockd/odatamock/pkg/logging"
	"github.com/getmockd/odatamock/pkg/record"
)

// DefaultBasePath is the service root of the SuccessFactors OData v2 API.
const DefaultBasePath = "/successfactors/odata/v2"

// DefaultMaxBodyBytes caps create and update payloads.
const DefaultMaxBodyBytes int64 = 1 << 20

// Handler serves the entity-set path grammar over HTTP.
type Handler struct {
	svc      *Service
	basePath string
	maxBody  int64
	logger   *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBasePath sets the service root. Trailing slashes are removed.
func WithBasePath(p string) HandlerOption {
	return func(h *Handler) { h.basePath = normalizeBasePath(p) }
}

// WithMaxBodyBytes caps request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithHandlerLogger sets the handler's logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:      svc,
		basePath: DefaultBasePath,
		maxBody:  DefaultMaxBodyBytes,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BasePath returns the service root.
func (h *Handler) BasePath() string {
	return h.basePath
}

// Register adds the entity-set and fixed operation routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	base := h.basePath

	for _, op := range workflowActions {
		mux.HandleFunc("POST "+base+"/"+op.name, h.handleWorkflowAction(op.result))
	}
	mux.HandleFunc("POST "+base+"/getWorkflowPendingData", h.handleWorkflowPending)
	mux.HandleFunc("GET "+base+"/getPositionObjectData", h.handlePositionObjectData)

	mux.HandleFunc(base+"/{segment}", h.handleEntitySet)
}

// ServeHTTP lets a Handler be used on its own, mostly in tests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	h.Register(mux)
	mux.ServeHTTP(w, r)
}

func (h *Handler) handleEntitySet(w http.ResponseWriter, r *http.Request) {
	seg := keyexpr.Split(r.PathValue("segment"))
	if seg.Entity == "" {
		h.writeError(w, &catalog.ValidationError{Message: "entity set name is required"})
		return
	}

	req := &OperationRequest{Collection: seg.Entity, Tokens: seg.Tokens()}

	switch r.Method {
	case http.MethodGet:
		req.Action = ActionList
		if seg.HasKey {
			req.Action = ActionGet
		}
	case http.MethodPost:
		if seg.HasKey {
			httputil.WriteMethodNotAllowed(w, "GET, PUT, DELETE")
			return
		}
		req.Action = ActionCreate
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		if !seg.HasKey {
			httputil.WriteMethodNotAllowed(w, "GET, POST")
			return
		}
		req.Action = ActionUpdate
		if r.Method == http.MethodDelete {
			req.Action = ActionDelete
		}
	default:
		allow := "GET, POST"
		if seg.HasKey {
			allow = "GET, PUT, DELETE"
		}
		httputil.WriteMethodNotAllowed(w, allow)
		return
	}

	if req.Action == ActionCreate || req.Action == ActionUpdate {
		data, err := h.readRecord(w, r)
		if err != nil {
			h.writeError(w, err)
			return
		}
		req.Data = data
	}

	result := h.svc.Execute(r.Context(), req)
	if !result.OK() {
		h.writeError(w, result.Error)
		return
	}

	switch req.Action {
	case ActionList:
		httputil.WriteResults(w, result.Records)
	case ActionGet, ActionCreate:
		httputil.WriteEnvelope(w, http.StatusOK, result.Record)
	case ActionUpdate:
		httputil.WriteEnvelope(w, http.StatusOK, StatusPayload{Status: "Updated"})
	case ActionDelete:
		httputil.WriteEnvelope(w, http.StatusOK, StatusPayload{Status: "Deleted"})
	}
}

// readRecord reads a size-limited JSON object body.
func (h *Handler) readRecord(w http.ResponseWriter, r *http.Request) (record.Record, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &catalog.PayloadTooLargeError{MaxSize: h.maxBody}
		}
		return nil, &catalog.ValidationError{Message: "failed to read request body: " + err.Error()}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, &catalog.ValidationError{Message: "request body must be a JSON object"}
	}

	// Numbers stay json.Number so large integer keys keep their exact value.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var rec record.Record
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return nil, &catalog.ValidationError{Message: "request body must be a JSON object"}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &catalog.ValidationError{Message: "request body must be a single JSON object"}
	}
	return rec, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	resp := catalog.ToErrorResponse(err)
	if resp.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	httputil.WriteJSON(w, resp.StatusCode, resp)
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
