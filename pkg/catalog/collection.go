package catalog

import (
	"sync"

	"github.com/getmockd/odatamock/pkg/record"
)

// Collection is a named, insertion-ordered sequence of records.
type Collection struct {
	mu      sync.RWMutex
	name    string
	records []record.Record
	seed    []record.Record
}

func newCollection(name string) *Collection {
	return &Collection{name: name}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Len returns the number of stored records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Snapshot returns deep copies of all records in collection order.
func (c *Collection) Snapshot() []record.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.records)
}

// Find returns a copy of the first record accepted by match.
func (c *Collection) Find(match func(record.Record) bool) (record.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rec := range c.records {
		if match(rec) {
			return rec.Clone(), true
		}
	}
	return nil, false
}

// Append stores a copy of rec at the end of the collection and returns
// another copy of what was stored.
func (c *Collection) Append(rec record.Record) record.Record {
	stored := rec.Clone()
	if stored == nil {
		stored = record.Record{}
	}
	c.mu.Lock()
	c.records = append(c.records, stored)
	c.mu.Unlock()
	return stored.Clone()
}

// ReplaceAll swaps the collection content for copies of records.
func (c *Collection) ReplaceAll(records []record.Record) {
	next := cloneAll(records)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = next
}

// UpdateFirst applies mutate to the first record accepted by match while
// holding the write lock, and returns a copy of the result.
func (c *Collection) UpdateFirst(match func(record.Record) bool, mutate func(record.Record)) (record.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.records {
		if match(rec) {
			mutate(rec)
			return rec.Clone(), true
		}
	}
	return nil, false
}

// RemoveWhere deletes every record accepted by match and returns how many
// were removed.
func (c *Collection) RemoveWhere(match func(record.Record) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.records[:0:0]
	for _, rec := range c.records {
		if !match(rec) {
			kept = append(kept, rec)
		}
	}
	removed := len(c.records) - len(kept)
	if removed > 0 {
		c.records = kept
	}
	return removed
}

// Reset restores the collection to its seed records.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = cloneAll(c.seed)
}

// Clear removes all records without restoring seed data.
func (c *Collection) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.records)
	c.records = nil
	return n
}

// seedWith appends records to both the seed set and the live content.
func (c *Collection) seedWith(records []record.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seed = append(c.seed, cloneAll(records)...)
	c.records = append(c.records, cloneAll(records)...)
}

func (c *Collection) seedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seed)
}

func cloneAll(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}
