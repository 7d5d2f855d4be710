// Package store persists manufacturing workflow state in SQLite.
//
// It holds orders, per-department tracking entries, department FIFO queues,
// and the worker roster. The store exposes row-level operations only; the
// workflow orchestrator owns transition semantics and invariants that span
// multiple rows. Queue removals that must keep positions dense compact them
// inside a single transaction; reads (peek, snapshot) never mutate.
//
// Treat this package as the single source of truth for persistence shape;
// when you add statuses or columns, update schema.sql and bump schemaVersion.
package store
