// Package dashboard implements the derived-view engine behind the
// property-management dashboard: relationship resolution across entity
// snapshots, aggregate statistics, a generic filter/sort/paginate pipeline,
// role scoping, and the notification read-state machine.
//
// Every function in this package is pure and synchronous: it accepts a fully
// materialized snapshot plus explicit parameters and returns derived data
// without hidden I/O. The engine is designed for a single-threaded,
// event-driven host; repeated calls with identical inputs return identical
// results, so callers may recompute views on every render. The only mutable
// state is the session-scoped NotificationCenter.
package dashboard
