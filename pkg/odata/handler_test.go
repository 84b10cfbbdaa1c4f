package odata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/odatamock/pkg/record"
)

func newTestHandler(t *testing.T, opts ...HandlerOption) *Handler {
	t.Helper()
	seed := employmentSeed()
	seed["Position"] = []record.Record{{"code": "POS001", "positionTitle": "Software Engineer"}}
	return NewHandler(newTestService(t, seed), opts...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeD(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	d, ok := env["d"].(map[string]any)
	require.True(t, ok, "response must be wrapped in d: %s", rec.Body.String())
	return d
}

const base = DefaultBasePath

func TestHandler_List(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, base+"/EmpEmployment", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	results, ok := decodeD(t, rec)["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "EMP001", results[0].(map[string]any)["userId"])
}

func TestHandler_ListUnknownIsEmpty(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestHandler(t), http.MethodGet, base+"/NothingHere", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"d":{"results":[]}}`, rec.Body.String())
}

func TestHandler_Scenario(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, base+"/EmpEmployment('EMP001')", "")
	require.Equal(t, http.StatusOK, rec.Code)
	d := decodeD(t, rec)
	assert.Equal(t, "EMP001", d["userId"])
	assert.Equal(t, "Active", d["employmentStatus"])

	rec = do(t, h, http.MethodPut, base+"/EmpEmployment('EMP001')", `{"employmentStatus":"Updated"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"d":{"status":"Updated"}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, base+"/EmpEmployment('EMP001')", "")
	d = decodeD(t, rec)
	assert.Equal(t, "Updated", d["employmentStatus"])
	assert.NotEmpty(t, d["lastModifiedDate"])

	rec = do(t, h, http.MethodDelete, base+"/EmpEmployment('EMP999')", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errBody map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "Entity not found", errBody["error"])
}

func TestHandler_KeyForms(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	paths := []string{
		base + "/Background_Education(1,'EMP001')",
		base + "/Background_Education('EMP001',1)",
		base + "/Background_Education(backgroundElementId=1,userId='EMP001')",
		base + "/Background_Education(userId='EMP001',backgroundElementId=1)",
	}
	for _, p := range paths {
		rec := do(t, h, http.MethodGet, p, "")
		require.Equal(t, http.StatusOK, rec.Code, p)
		assert.Equal(t, "Computer Science", decodeD(t, rec)["major"], p)
	}
}

func TestHandler_GetSynthesizes(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	for _, p := range []string{
		base + "/Unknown('X')",
		base + "/Unknown('a','b')",
		base + "/EmpCostDistributionItem('2023-01-01','EMP001',1)",
		base + "/Unknown(",
	} {
		rec := do(t, h, http.MethodGet, p, "")
		require.Equal(t, http.StatusOK, rec.Code, p)
		assert.NotEmpty(t, decodeD(t, rec)["id"], p)
	}
}

func TestHandler_Create(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, base+"/NewTestEntity", `{"name":"Test","count":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decodeD(t, rec)
	assert.Equal(t, "Test", d["name"])
	assert.EqualValues(t, 2, d["count"])
	assert.NotEmpty(t, d["id"])
	assert.NotEmpty(t, d["createdDate"])

	rec = do(t, h, http.MethodGet, base+"/NewTestEntity", "")
	assert.Len(t, decodeD(t, rec)["results"], 1)
}

func TestHandler_CreateRejectsBadBodies(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	for _, body := range []string{"", "not json", "[1,2]", "null", `"text"`, `{"a":1}{"b":2}`} {
		rec := do(t, h, http.MethodPost, base+"/NewTestEntity", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestHandler_CreateKeepsLargeIntegerKeys(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, base+"/CostCenter", `{"externalCode":9007199254740993,"name":"Big"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"externalCode":9007199254740993`)
	id := decodeD(t, rec)["id"]
	require.NotEmpty(t, id)

	rec = do(t, h, http.MethodGet, base+"/CostCenter(9007199254740993)", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"externalCode":9007199254740993`)
	d := decodeD(t, rec)
	assert.Equal(t, id, d["id"])
	assert.Equal(t, "Big", d["name"])
}

func TestHandler_BodyLimit(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, WithMaxBodyBytes(16))
	rec := do(t, h, http.MethodPost, base+"/Big", `{"payload":"`+strings.Repeat("x", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandler_DeleteTwoKeys(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := do(t, h, http.MethodDelete, base+"/Background_Education('EMP001',1)", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"d":{"status":"Deleted"}}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, base+"/Background_Education(1,'EMP001')", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateMiss(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestHandler(t), http.MethodPut, base+"/EmpEmployment('EMP999')", `{"a":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPut, base+"/EmpEmployment", `{}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, base+"/EmpEmployment('EMP001')", `{}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodOptions, base+"/EmpEmployment", "").Code)
}

func TestHandler_FixedOperations(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	tests := []struct {
		path string
		want string
	}{
		{"/approveWfRequest", `{"d":{"result":"Workflow approved","status":"Success"}}`},
		{"/rejectWfRequest", `{"d":{"result":"Workflow rejected","status":"Success"}}`},
		{"/commentWfRequest", `{"d":{"result":"Comment added","status":"Success"}}`},
		{"/sendbackWfRequest", `{"d":{"result":"Workflow sent back","status":"Success"}}`},
		{"/withdrawWfRequest", `{"d":{"result":"Workflow withdrawn","status":"Success"}}`},
		{"/getWorkflowPendingData", `{"d":{"result":{"pendingItems":[],"totalCount":0},"status":"Success"}}`},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, base+tt.path, `{"wfRequestId":"WF001"}`)
		require.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.JSONEq(t, tt.want, rec.Body.String(), tt.path)
	}

	rec := do(t, h, http.MethodGet, base+"/getPositionObjectData", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"d":{"result":[{"code":"POS001","positionTitle":"Software Engineer"}]}}`, rec.Body.String())
}

func TestHandler_CustomBasePath(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, WithBasePath("odata/"))
	assert.Equal(t, "/odata", h.BasePath())
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/odata/EmpEmployment", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, base+"/EmpEmployment", "").Code)
}

func TestFixedOperations(t *testing.T) {
	t.Parallel()

	ops := FixedOperations()
	require.Len(t, ops, 7)
	assert.Equal(t, FixedOperation{Method: http.MethodPost, Name: "approveWfRequest", Summary: "Workflow approved"}, ops[0])
	assert.Equal(t, http.MethodGet, ops[6].Method)
	assert.Equal(t, "getPositionObjectData", ops[6].Name)
}
