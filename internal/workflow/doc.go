// Package workflow orchestrates order movement through the department
// pipeline.
//
// The Orchestrator is the only component that mutates orders, tracking
// entries, and department queues. Every operation runs inside a per-order
// critical section so manual moves and automatic cascades for the same order
// cannot interleave; department queue drains additionally serialize per
// department. Cascades and queue drains execute inline within the triggering
// call, so callers always observe the settled state.
package workflow
