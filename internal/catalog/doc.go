// Package catalog provides SQLite-backed storage for rendered MDX
// queries.
//
// Entries are content addressed: the SHA-256 hash of (name, query
// text) carries a UNIQUE constraint, so saving identical content twice
// returns the already-stored entry instead of inserting a duplicate.
// Re-rendering and re-saving a query pipeline is therefore safe to
// repeat.
//
// Ordering uses a logical sequence counter (created_seq), never wall
// time. Listing order is stable across machines and across reopen:
// Open resumes the counter from the highest stored sequence.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// SQLite supports one writer at a time, so the pool is capped at a
// single connection to avoid SQLITE_BUSY errors.
package catalog
