package requestlog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Memory store
// ============================================================================

func TestMemory_LogAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewMemory(10)
	m.now = func() time.Time { return fixed }

	e := &Entry{Method: http.MethodGet, Path: "/EmpJob"}
	m.Log(e)
	m.Log(nil)

	assert.Equal(t, "req-1", e.ID)
	assert.Equal(t, fixed, e.Timestamp)
	assert.Equal(t, 1, m.Count())
	assert.Same(t, e, m.Get("req-1"))
	assert.Nil(t, m.Get("req-2"))

	keep := &Entry{ID: "custom"}
	m.Log(keep)
	assert.Same(t, keep, m.Get("custom"))
}

func TestMemory_DefaultCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultCapacity, NewMemory(0).Capacity())
	assert.Equal(t, 5, NewMemory(5).Capacity())
}

func TestMemory_EvictsOldest(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	for i := range 5 {
		m.Log(&Entry{Path: fmt.Sprintf("/p%d", i)})
	}

	assert.Equal(t, 3, m.Count())
	assert.Nil(t, m.Get("req-1"))
	assert.Nil(t, m.Get("req-2"))

	list := m.List(nil)
	require.Len(t, list, 3)
	assert.Equal(t, "/p4", list[0].Path, "newest first")
	assert.Equal(t, "/p2", list[2].Path)
}

func TestMemory_ListFilter(t *testing.T) {
	t.Parallel()

	m := NewMemory(100)
	m.Log(&Entry{Method: "GET", Path: "/odata/EmpJob", Collection: "EmpJob", ResponseStatus: 200})
	m.Log(&Entry{Method: "POST", Path: "/odata/EmpJob", Collection: "EmpJob", ResponseStatus: 200})
	m.Log(&Entry{Method: "PUT", Path: "/odata/Position('X')", Collection: "Position", Key: "'X'", ResponseStatus: 404})
	m.Log(&Entry{Method: "GET", Path: "/health", ResponseStatus: 200})

	failed := true
	ok := false

	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"nil", nil, 4},
		{"empty", &Filter{}, 4},
		{"method is case-insensitive", &Filter{Method: "get"}, 2},
		{"path prefix", &Filter{Path: "/odata/"}, 3},
		{"collection", &Filter{Collection: "EmpJob"}, 2},
		{"status", &Filter{StatusCode: 404}, 1},
		{"failed", &Filter{Failed: &failed}, 1},
		{"not failed", &Filter{Failed: &ok}, 3},
		{"limit", &Filter{Limit: 2}, 2},
		{"offset", &Filter{Offset: 3}, 1},
		{"offset past end", &Filter{Offset: 10}, 0},
		{"combined", &Filter{Path: "/odata/", Limit: 1, Offset: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, m.List(tt.filter), tt.want)
		})
	}

	got := m.List(&Filter{Path: "/odata/", Limit: 1, Offset: 1})
	assert.Equal(t, "POST", got[0].Method)
}

func TestMemory_Clear(t *testing.T) {
	t.Parallel()

	m := NewMemory(10)
	m.Log(&Entry{})
	m.Log(&Entry{})
	m.Clear()

	assert.Zero(t, m.Count())
	assert.Empty(t, m.List(nil))

	m.Log(&Entry{})
	assert.NotNil(t, m.Get("req-3"), "ids keep increasing after clear")
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMemory(50)
	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			for range 100 {
				m.Log(&Entry{Method: "GET"})
				_ = m.List(&Filter{Limit: 5})
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 50, m.Count())
	assert.NotNil(t, m.Get("req-1000"))
}

// ============================================================================
// Middleware
// ============================================================================

func TestMiddleware_RecordsEntries(t *testing.T) {
	t.Parallel()

	m := NewMemory(10)
	mux := http.NewServeMux()
	mux.HandleFunc("/odata/{segment}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"d":{}}`))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {})

	h := Middleware(m,
		WithDescribe(func(r *http.Request) (string, string) {
			seg := r.PathValue("segment")
			name, key, _ := strings.Cut(strings.TrimSuffix(seg, ")"), "(")
			return name, key
		}),
		WithSkip(func(r *http.Request) bool { return r.URL.Path == "/health" }),
	)(mux)

	req := httptest.NewRequest(http.MethodPost, "/odata/EmpJob('E1')?x=1", strings.NewReader(`{"a":1}`))
	h.ServeHTTP(httptest.NewRecorder(), req)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	list := m.List(nil)
	require.Len(t, list, 2)

	miss := list[0]
	assert.Equal(t, "/nowhere", miss.Path)
	assert.Equal(t, "unmatched", miss.Route)
	assert.Equal(t, http.StatusNotFound, miss.ResponseStatus)
	assert.True(t, miss.Failed())

	e := list[1]
	assert.Equal(t, http.MethodPost, e.Method)
	assert.Equal(t, "/odata/EmpJob('E1')", e.Path)
	assert.Equal(t, "x=1", e.QueryString)
	assert.Equal(t, "/odata/{segment}", e.Route)
	assert.Equal(t, "EmpJob", e.Collection)
	assert.Equal(t, "'E1'", e.Key)
	assert.Equal(t, int64(7), e.BodySize)
	assert.Equal(t, http.StatusCreated, e.ResponseStatus)
	assert.Equal(t, 8, e.ResponseSize)
	assert.False(t, e.Failed())
	assert.NotEmpty(t, e.ID)
}

func TestMiddleware_NilLogger(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
