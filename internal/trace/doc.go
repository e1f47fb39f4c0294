// Package trace records store dispatch outcomes in SQLite.
//
// A Recorder is a store.Observer. Each event becomes one row holding the
// action identifier, its payload as RFC 8785 canonical JSON, a
// domain-separated payload hash, the resulting version and any error.
// State values are never written; only what was dispatched and what
// happened to it.
//
// Rows are ordered by an autoincrement seq, never by wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package trace
