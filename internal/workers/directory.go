// Package workers defines the worker-directory port the assignment resolver
// consumes. Worker records are managed by an external roster; the engine only
// reads identity and availability, so the port is read-only.
package workers

import (
	"context"

	"atelier/internal/store"
)

// Directory abstracts worker availability lookups scoped to a department.
// Implementations must return fresh workload counts on every call; the
// resolver never caches availability across resolutions.
type Directory interface {
	ListAvailableWorkers(ctx context.Context, departmentID string) ([]*store.Worker, error)
	GetWorkerByRef(ctx context.Context, ref string) (*store.Worker, error)
}
