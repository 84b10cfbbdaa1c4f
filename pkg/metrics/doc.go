// Package metrics exposes Prometheus metrics for the OData mock server.
//
// A Metrics value owns its own prometheus.Registry so that several servers
// (or tests) in one process never collide on registration.
//
// Collected series:
//
//   - odatamock_http_requests_total: requests by method, route and status
//   - odatamock_http_request_duration_seconds: request latency by method and route
//   - odatamock_operations_total: dispatcher operations by collection and operation
//   - odatamock_operation_duration_seconds: dispatcher latency by operation
//   - odatamock_synthesized_total: keyed reads answered with a fabricated record
//   - odatamock_records_removed_total: records removed by delete
//   - odatamock_errors_total: failed operations by collection and operation
//   - odatamock_resets_total: catalog resets
//   - odatamock_collections: collections currently held by the catalog
//   - odatamock_uptime_seconds: seconds since the Metrics value was created
//
// Collection labels are limited to the names passed to WithKnownCollections;
// everything else is reported as "other". Go runtime and process collectors
// are registered alongside.
//
// # Usage
//
//	m := metrics.New(metrics.WithKnownCollections(cat.Names()...))
//	svc := odata.NewService(cat, odata.WithObserver(m))
//	mux.Handle("GET /metrics", m.Handler())
//	handler := m.Middleware(mux)
package metrics
