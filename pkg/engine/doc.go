// Package engine runs the OData mock as an HTTP server.
//
// A Server wires the catalog-backed odata.Service to a ServeMux and wraps
// it with the middleware chain:
//
//	metrics -> access log -> request journal -> rate limit -> JSON content type -> routes
//
// Besides the entity sets under the configured base path it serves:
//
//	GET  /health                  liveness and collection count
//	GET  /openapi.json            generated OpenAPI 3 document
//	GET  /metrics                 Prometheus exposition
//	POST /__admin/reset           restore seed data
//	GET  /__admin/collections     collection overview
//	GET  /__admin/collections/{name}
//	GET  /__admin/stats           dispatcher counters
//	GET  /__admin/requests        recent requests, filtered by query
//	GET  /__admin/requests/{id}
//	DELETE /__admin/requests      clear the request journal
//
// # Usage
//
//	cat := catalog.New()
//	cat.Load(seed)
//	srv := engine.NewServer(cfg, cat, engine.WithLogger(log))
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package engine
