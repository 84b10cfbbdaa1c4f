package requestlog

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 1000

// Logger is the minimal interface for recording entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for request history storage.
type Store interface {
	Logger

	// Get retrieves an entry by ID, or nil.
	Get(id string) *Entry

	// List returns entries newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for listing entries. Zero fields match everything.
type Filter struct {
	Method string

	// Path filters by path prefix.
	Path string

	Collection string

	StatusCode int

	// Failed filters by error status (>= 400) when set.
	Failed *bool

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}

func (f *Filter) matches(e *Entry) bool {
	if f.Method != "" && !strings.EqualFold(e.Method, f.Method) {
		return false
	}
	if f.Path != "" && !strings.HasPrefix(e.Path, f.Path) {
		return false
	}
	if f.Collection != "" && e.Collection != f.Collection {
		return false
	}
	if f.StatusCode != 0 && e.ResponseStatus != f.StatusCode {
		return false
	}
	if f.Failed != nil && *f.Failed != e.Failed() {
		return false
	}
	return true
}

// Memory is a Store backed by a fixed-size in-memory buffer. The oldest entry
// is evicted when the buffer is full.
type Memory struct {
	mu       sync.RWMutex
	entries  []*Entry
	capacity int
	nextID   int64
	now      func() time.Time
}

// NewMemory creates a Memory store holding up to capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		entries:  make([]*Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Capacity returns the maximum number of entries kept.
func (m *Memory) Capacity() int {
	return m.capacity
}

// Log records an entry, assigning its ID and timestamp when unset.
func (m *Memory) Log(entry *Entry) {
	if entry == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		m.nextID++
		entry.ID = "req-" + strconv.FormatInt(m.nextID, 10)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.now()
	}

	if len(m.entries) >= m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, entry)
}

// Get retrieves an entry by ID.
func (m *Memory) Get(id string) *Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// List returns entries newest first.
func (m *Memory) List(filter *Filter) []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filter != nil && !filter.matches(e) {
			continue
		}
		result = append(result, e)
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*Entry{}
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result
}

// Clear removes all entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]*Entry, 0, m.capacity)
}

// Count returns the number of entries.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
