package catalog

import (
	"sort"
	"sync"

	"github.com/getmockd/odatamock/pkg/record"
)

// Catalog is the single owner of all collections.
type Catalog struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		collections: make(map[string]*Collection),
	}
}

// Get returns the named collection, creating an empty one if it does not exist.
func (c *Catalog) Get(name string) *Collection {
	c.mu.RLock()
	col, ok := c.collections[name]
	c.mu.RUnlock()
	if ok {
		return col
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if col, ok := c.collections[name]; ok {
		return col
	}
	col = newCollection(name)
	c.collections[name] = col
	return col
}

// Lookup returns the named collection without materializing it.
func (c *Catalog) Lookup(name string) (*Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.collections[name]
	return col, ok
}

// Records returns a snapshot of the named collection, or nil if it was never
// referenced. It does not materialize the collection.
func (c *Catalog) Records(name string) []record.Record {
	col, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	return col.Snapshot()
}

// Append adds a record to the named collection.
func (c *Catalog) Append(name string, rec record.Record) record.Record {
	return c.Get(name).Append(rec)
}

// ReplaceAll replaces the content of the named collection.
func (c *Catalog) ReplaceAll(name string, records []record.Record) {
	c.Get(name).ReplaceAll(records)
}

// Load adds seed records. Seeded records survive Reset; loading the same
// collection twice appends.
func (c *Catalog) Load(seed map[string][]record.Record) {
	for name, records := range seed {
		c.Get(name).seedWith(records)
	}
}

// Names returns all collection names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.collections))
	for name := range c.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of collections.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.collections)
}

// Reset restores every seeded collection to its seed records and drops
// collections that have no seed data.
func (c *Catalog) Reset() *ResetResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	var names []string
	for name, col := range c.collections {
		if col.seedCount() == 0 {
			delete(c.collections, name)
			continue
		}
		col.Reset()
		names = append(names, name)
	}
	sort.Strings(names)

	return &ResetResponse{
		Reset:       true,
		Collections: names,
		Message:     "Catalog reset to seed data",
	}
}

// Overview summarizes the catalog.
func (c *Catalog) Overview() *Overview {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ov := &Overview{
		Collections: len(c.collections),
		Details:     make([]CollectionInfo, 0, len(c.collections)),
	}
	for name, col := range c.collections {
		n := col.Len()
		ov.TotalRecords += n
		ov.Details = append(ov.Details, CollectionInfo{
			Name:      name,
			Records:   n,
			SeedCount: col.seedCount(),
		})
	}
	sort.Slice(ov.Details, func(i, j int) bool {
		return ov.Details[i].Name < ov.Details[j].Name
	})
	return ov
}

// Info returns details about a single collection.
func (c *Catalog) Info(name string) (*CollectionInfo, error) {
	col, ok := c.Lookup(name)
	if !ok {
		return nil, &NotFoundError{Collection: name}
	}
	return &CollectionInfo{
		Name:      name,
		Records:   col.Len(),
		SeedCount: col.seedCount(),
	}, nil
}
