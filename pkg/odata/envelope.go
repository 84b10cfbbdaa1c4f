package odata

import (
	"io"
	"net/http"

	"github.com/getmockd/odatamock/pkg/httputil"
)

// StatusPayload is the body of update and delete responses.
type StatusPayload struct {
	Status string `json:"status"`
}

// ActionPayload is the body of the fixed operation endpoints.
type ActionPayload struct {
	Result any    `json:"result"`
	Status string `json:"status,omitempty"`
}

// PendingData is the result of getWorkflowPendingData.
type PendingData struct {
	PendingItems []any `json:"pendingItems"`
	TotalCount   int   `json:"totalCount"`
}

type workflowAction struct {
	name   string
	result string
}

// workflowActions are the fixed workflow request operations.
var workflowActions = []workflowAction{
	{"approveWfRequest", "Workflow approved"},
	{"rejectWfRequest", "Workflow rejected"},
	{"commentWfRequest", "Comment added"},
	{"sendbackWfRequest", "Workflow sent back"},
	{"withdrawWfRequest", "Workflow withdrawn"},
}

// FixedOperation describes one of the fixed operation endpoints.
type FixedOperation struct {
	Method  string
	Name    string
	Summary string
}

// FixedOperations lists the fixed operation endpoints in registration order.
func FixedOperations() []FixedOperation {
	ops := make([]FixedOperation, 0, len(workflowActions)+2)
	for _, a := range workflowActions {
		ops = append(ops, FixedOperation{Method: http.MethodPost, Name: a.name, Summary: a.result})
	}
	return append(ops,
		FixedOperation{Method: http.MethodPost, Name: "getWorkflowPendingData", Summary: "Pending workflow items"},
		FixedOperation{Method: http.MethodGet, Name: "getPositionObjectData", Summary: "Position records"},
	)
}

// PositionCollection backs getPositionObjectData.
const PositionCollection = "Position"

func (h *Handler) handleWorkflowAction(result string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drain(r)
		httputil.WriteEnvelope(w, http.StatusOK, ActionPayload{Result: result, Status: "Success"})
	}
}

func (h *Handler) handleWorkflowPending(w http.ResponseWriter, r *http.Request) {
	drain(r)
	httputil.WriteEnvelope(w, http.StatusOK, ActionPayload{
		Result: PendingData{PendingItems: []any{}, TotalCount: 0},
		Status: "Success",
	})
}

func (h *Handler) handlePositionObjectData(w http.ResponseWriter, r *http.Request) {
	records := h.svc.Catalog().Get(PositionCollection).Snapshot()
	httputil.WriteEnvelope(w, http.StatusOK, ActionPayload{Result: records})
}

// drain discards a request body the fixed endpoints accept but ignore.
func drain(r *http.Request) {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, DefaultMaxBodyBytes))
	}
}
