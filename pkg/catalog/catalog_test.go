package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/odatamock/pkg/record"
)

func byUser(id string) func(record.Record) bool {
	return func(r record.Record) bool {
		v, ok := r.FieldString("userId")
		return ok && v == id
	}
}

// =============================================================================
// Catalog Tests
// =============================================================================

func TestCatalog_GetMaterializesLazily(t *testing.T) {
	t.Parallel()

	cat := New()
	_, ok := cat.Lookup("NewEntity")
	assert.False(t, ok)

	col := cat.Get("NewEntity")
	require.NotNil(t, col)
	assert.Equal(t, "NewEntity", col.Name())
	assert.Equal(t, 0, col.Len())
	assert.Empty(t, col.Snapshot())
	assert.NotNil(t, col.Snapshot(), "empty collections snapshot as an empty slice")

	assert.Same(t, col, cat.Get("NewEntity"))
	assert.Equal(t, []string{"NewEntity"}, cat.Names())
}

func TestCatalog_RecordsDoesNotMaterialize(t *testing.T) {
	t.Parallel()

	cat := New()
	assert.Nil(t, cat.Records("Unknown"))
	assert.Equal(t, 0, cat.Len())
}

func TestCatalog_AppendKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	cat := New()
	for i := range 5 {
		cat.Append("EmpJob", record.Record{"userId": fmt.Sprintf("EMP%03d", i)})
	}

	got := cat.Get("EmpJob").Snapshot()
	require.Len(t, got, 5)
	for i, rec := range got {
		assert.Equal(t, fmt.Sprintf("EMP%03d", i), rec["userId"])
	}
}

func TestCatalog_AppendStoresCopy(t *testing.T) {
	t.Parallel()

	cat := New()
	in := record.Record{"userId": "EMP001", "nested": map[string]any{"k": "v"}}
	out := cat.Append("EmpJob", in)

	in["userId"] = "changed"
	out["nested"].(map[string]any)["k"] = "changed"

	stored := cat.Get("EmpJob").Snapshot()[0]
	assert.Equal(t, "EMP001", stored["userId"])
	assert.Equal(t, "v", stored["nested"].(map[string]any)["k"])
}

func TestCatalog_ReplaceAll(t *testing.T) {
	t.Parallel()

	cat := New()
	cat.Append("PerPerson", record.Record{"userId": "EMP001"})
	cat.ReplaceAll("PerPerson", []record.Record{{"userId": "EMP002"}, {"userId": "EMP003"}})

	got := cat.Get("PerPerson").Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "EMP002", got[0]["userId"])
	assert.Equal(t, "EMP003", got[1]["userId"])
}

func TestCatalog_LoadAndReset(t *testing.T) {
	t.Parallel()

	cat := New()
	cat.Load(map[string][]record.Record{
		"EmpEmployment": {{"userId": "EMP001", "employmentStatus": "Active"}},
	})
	cat.Append("EmpEmployment", record.Record{"userId": "EMP002"})
	cat.Append("Scratch", record.Record{"name": "temp"})
	cat.Get("EmpEmployment").UpdateFirst(byUser("EMP001"), func(r record.Record) {
		r["employmentStatus"] = "Updated"
	})

	resp := cat.Reset()
	require.NotNil(t, resp)
	assert.True(t, resp.Reset)
	assert.Equal(t, []string{"EmpEmployment"}, resp.Collections)

	_, ok := cat.Lookup("Scratch")
	assert.False(t, ok, "collections without seed data are dropped")

	got := cat.Get("EmpEmployment").Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "Active", got[0]["employmentStatus"])
}

func TestCatalog_OverviewAndInfo(t *testing.T) {
	t.Parallel()

	cat := New()
	cat.Load(map[string][]record.Record{
		"Position": {{"code": "POS001"}, {"code": "POS002"}},
	})
	cat.Append("WfRequest", record.Record{"wfRequestId": "WF001"})

	ov := cat.Overview()
	assert.Equal(t, 2, ov.Collections)
	assert.Equal(t, 3, ov.TotalRecords)
	require.Len(t, ov.Details, 2)
	assert.Equal(t, "Position", ov.Details[0].Name)
	assert.Equal(t, 2, ov.Details[0].SeedCount)
	assert.Equal(t, "WfRequest", ov.Details[1].Name)
	assert.Equal(t, 0, ov.Details[1].SeedCount)

	info, err := cat.Info("Position")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Records)

	_, err = cat.Info("Nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// =============================================================================
// Collection Tests
// =============================================================================

func TestCollection_FindFirstMatchWins(t *testing.T) {
	t.Parallel()

	col := newCollection("EmpJob")
	col.Append(record.Record{"userId": "EMP001", "jobTitle": "first"})
	col.Append(record.Record{"userId": "EMP001", "jobTitle": "second"})

	rec, ok := col.Find(byUser("EMP001"))
	require.True(t, ok)
	assert.Equal(t, "first", rec["jobTitle"])

	_, ok = col.Find(byUser("EMP404"))
	assert.False(t, ok)
}

func TestCollection_UpdateFirst(t *testing.T) {
	t.Parallel()

	col := newCollection("EmpJob")
	col.Append(record.Record{"userId": "EMP001", "jobTitle": "first"})
	col.Append(record.Record{"userId": "EMP001", "jobTitle": "second"})

	updated, ok := col.UpdateFirst(byUser("EMP001"), func(r record.Record) {
		r["jobTitle"] = "changed"
	})
	require.True(t, ok)
	assert.Equal(t, "changed", updated["jobTitle"])

	got := col.Snapshot()
	assert.Equal(t, "changed", got[0]["jobTitle"])
	assert.Equal(t, "second", got[1]["jobTitle"])

	_, ok = col.UpdateFirst(byUser("EMP404"), func(record.Record) {
		t.Fatal("mutate must not run on a miss")
	})
	assert.False(t, ok)
}

func TestCollection_RemoveWhereRemovesDuplicates(t *testing.T) {
	t.Parallel()

	col := newCollection("EmpJob")
	col.Append(record.Record{"userId": "EMP001"})
	col.Append(record.Record{"userId": "EMP002"})
	col.Append(record.Record{"userId": "EMP001"})

	assert.Equal(t, 2, col.RemoveWhere(byUser("EMP001")))
	got := col.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "EMP002", got[0]["userId"])

	assert.Equal(t, 0, col.RemoveWhere(byUser("EMP001")))
	assert.Equal(t, 1, col.Len())
}

func TestCollection_Clear(t *testing.T) {
	t.Parallel()

	col := newCollection("EmpJob")
	col.seedWith([]record.Record{{"userId": "EMP001"}})
	assert.Equal(t, 1, col.Clear())
	assert.Equal(t, 0, col.Len())

	col.Reset()
	assert.Equal(t, 1, col.Len())
}

func TestCollection_ConcurrentMutation(t *testing.T) {
	t.Parallel()

	cat := New()
	cat.Append("Counter", record.Record{"userId": "EMP001", "n": 0})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cat.Get("Counter").UpdateFirst(byUser("EMP001"), func(r record.Record) {
				r["n"] = r["n"].(int) + 1
			})
		}()
		go func() {
			defer wg.Done()
			cat.Append("Counter", record.Record{"userId": "EMP002"})
			_ = cat.Get("Counter").Snapshot()
		}()
	}
	wg.Wait()

	col := cat.Get("Counter")
	assert.Equal(t, 51, col.Len())
	rec, ok := col.Find(byUser("EMP001"))
	require.True(t, ok)
	assert.Equal(t, 50, rec["n"])
}

// =============================================================================
// Error Tests
// =============================================================================

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := &NotFoundError{Collection: "EmpEmployment", Key: "EMP999"}
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.Contains(t, err.Error(), "EMP999")
	assert.Contains(t, err.Hint(), "EmpEmployment")

	wrapped := fmt.Errorf("update: %w", err)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestToErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", &NotFoundError{Collection: "EmpJob", Key: "X"}, http.StatusNotFound, "Entity not found"},
		{"validation", &ValidationError{Message: "body must be a JSON object"}, http.StatusBadRequest, "invalid request"},
		{"too large", &PayloadTooLargeError{MaxSize: 10}, http.StatusRequestEntityTooLarge, "payload too large"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := ToErrorResponse(tt.err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}
}

// =============================================================================
// Observer Tests
// =============================================================================

func TestCounters(t *testing.T) {
	t.Parallel()

	c := NewCounters()
	var obs Observer = Observers{NoopObserver{}, c}

	obs.OnList("EmpJob", 3, time.Millisecond)
	obs.OnGet("EmpJob", true, time.Millisecond)
	obs.OnGet("EmpJob", false, time.Millisecond)
	obs.OnCreate("EmpJob", time.Millisecond)
	obs.OnUpdate("EmpJob", time.Millisecond)
	obs.OnDelete("EmpJob", 2, time.Millisecond)
	obs.OnError("EmpJob", "update", &NotFoundError{Collection: "EmpJob"})
	obs.OnReset([]string{"EmpJob"}, time.Millisecond)

	s := c.Snapshot()
	assert.Equal(t, int64(1), s.ListCount)
	assert.Equal(t, int64(2), s.GetCount)
	assert.Equal(t, int64(1), s.SynthesizeCount)
	assert.Equal(t, int64(1), s.CreateCount)
	assert.Equal(t, int64(1), s.UpdateCount)
	assert.Equal(t, int64(1), s.DeleteCount)
	assert.Equal(t, int64(2), s.RemovedCount)
	assert.Equal(t, int64(1), s.ErrorCount)
	assert.Equal(t, int64(1), s.ResetCount)
	assert.Equal(t, int64(6), s.TotalOperations())
	assert.Equal(t, 7*time.Millisecond, s.TotalLatency)
}
