// Package requestlog keeps a journal of the requests the mock has served so
// they can be inspected through the admin API.
//
// It is distinct from operational logging (which uses log/slog). Entries
// record what a client asked for and what it got back: method, path, the
// addressed entity set and key, status and timing.
//
//	journal := requestlog.NewMemory(1000)
//	handler = requestlog.Middleware(journal, requestlog.WithDescribe(describe))(handler)
//	recent := journal.List(&requestlog.Filter{Collection: "EmpEmployment", Limit: 20})
package requestlog
