// Package catalog is the in-memory Collection Store of the OData mock.
//
// A Catalog owns every named Collection. Collections are materialized lazily:
// referring to an unknown name yields an empty collection that lives for the
// rest of the process. Collections keep records in insertion order and never
// enforce uniqueness of identifying fields.
//
// Core Types:
//
//   - Catalog: process-wide owner of all collections and their seed data
//   - Collection: a named, ordered sequence of records
//
// Thread Safety:
//
// The catalog map is guarded by a sync.RWMutex, and each collection has its own
// sync.RWMutex. Mutations (append, replace, update-in-place, remove) take the
// collection's write lock, so concurrent writers to one collection are
// serialized while writers to different collections proceed in parallel.
// Reads take the read lock and return deep copies, so a reader never observes
// a partially updated record.
//
// Usage:
//
//	cat := catalog.New()
//	cat.Load(map[string][]record.Record{
//	    "EmpEmployment": {{"userId": "EMP001", "employmentStatus": "Active"}},
//	})
//
//	records := cat.Get("EmpEmployment").Snapshot()
//	cat.Append("NewTestEntity", record.Record{"name": "Test"})
//	cat.Reset() // back to seed data
package catalog
