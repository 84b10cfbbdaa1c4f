// Package odata is the request dispatcher of the mock: it maps list, get,
// create, update and delete operations on a named entity set to the catalog,
// the key matcher and the synthesizer, and serves them over HTTP using the
// OData v2 path grammar.
//
// Path grammar, relative to the service base path:
//
//	GET    /{Entity}                      list
//	GET    /{Entity}('K')                 get by one key
//	GET    /{Entity}(k1=1,k2='EMP001')    get by two keys, either order
//	GET    /{Entity}('a','b','c')         get by three keys, positional
//	POST   /{Entity}                      create
//	PUT    /{Entity}(key...)              update
//	DELETE /{Entity}(key...)              delete every matching record
//
// Reads never fail: a key that matches nothing yields a synthesized record that
// is returned but not stored. Update and delete report a not-found error when
// nothing matches.
//
// A handful of fixed workflow and position endpoints return canned success
// envelopes.
package odata
