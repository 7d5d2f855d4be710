package workflow

import (
	"time"

	"atelier/internal/assignment"
	"atelier/internal/store"
)

// Assignment describes how a resolution ended for transport to callers.
type Assignment struct {
	Assigned      bool
	WorkerRef     string
	WorkerName    string
	Queued        bool
	QueuePosition int
}

func fromOutcome(out assignment.Outcome) Assignment {
	result := Assignment{
		Assigned:      out.Assigned,
		Queued:        out.Queued,
		QueuePosition: out.QueuePosition,
	}
	if out.Worker != nil {
		result.WorkerRef = out.Worker.Ref
		result.WorkerName = out.Worker.Name
	}
	return result
}

// DispatchResult is the per-order outcome of a bulk send-to-factory call.
// One failing order never affects the others' slots.
type DispatchResult struct {
	OrderRef   string
	Department string
	Assignment *Assignment
	Err        error
}

// MoveResult reports a manual department move. Moved is false when the target
// equals the order's current department (idempotent no-op).
type MoveResult struct {
	OrderRef   string
	Department string
	Moved      bool
	Assignment Assignment
}

// Metrics carries optional display-only measurements recorded at completion.
type Metrics struct {
	CompletionPercent *float64
}

// DrainResult reports the queue-drain assignment triggered when a worker
// frees up in a department.
type DrainResult struct {
	OrderRef   string
	Assignment Assignment
}

// CompleteResult reports a department completion, including the cascade into
// the successor department and any queue drain in the vacated one.
type CompleteResult struct {
	OrderRef       string
	Department     string
	Completed      bool
	OrderCompleted bool
	NextDepartment string
	NextAssignment *Assignment
	QueueDrain     *DrainResult
}

// ReassignResult reports an in-place assignee change.
type ReassignResult struct {
	Assigned   bool
	WorkerRef  string
	WorkerName string
	Message    string
}

// UnassignResult reports a worker unbinding and the immediate re-resolution
// that follows it.
type UnassignResult struct {
	Unassigned bool
	Resolution Assignment
}

// SelfAssignResult reports a worker claiming a pending entry themselves.
type SelfAssignResult struct {
	Assigned bool
}

// QueuedOrder is one waiting order in a department queue snapshot.
type QueuedOrder struct {
	OrderRef string
	Priority store.Priority
	Position int
	QueuedAt time.Time
}

// QueueSnapshot is the external view of one department's FIFO queue.
type QueueSnapshot struct {
	DepartmentID   string
	DepartmentName string
	Length         int
	Entries        []QueuedOrder
}
