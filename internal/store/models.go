package store

import (
	"strings"
	"time"
)

// OrderStatus represents the overall lifecycle of an order.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderInFactory OrderStatus = "in_factory"
	OrderCompleted OrderStatus = "completed"
)

// EntryStatus represents the lifecycle of one order's visit to one department.
type EntryStatus string

const (
	EntryPendingAssignment EntryStatus = "pending_assignment"
	EntryInProgress        EntryStatus = "in_progress"
	EntryCompleted         EntryStatus = "completed"
)

// Priority is carried on orders for display purposes. It never reorders the
// department queues; the only consumer is the board's urgent-count badge.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var orderStatusSet = map[OrderStatus]struct{}{
	OrderDraft:     {},
	OrderInFactory: {},
	OrderCompleted: {},
}

var entryStatusSet = map[EntryStatus]struct{}{
	EntryPendingAssignment: {},
	EntryInProgress:        {},
	EntryCompleted:         {},
}

var prioritySet = map[Priority]struct{}{
	PriorityNormal: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

// ParseOrderStatus converts a string into a known OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	normalized := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := orderStatusSet[normalized]
	return normalized, ok
}

// ParseEntryStatus converts a string into a known EntryStatus.
func ParseEntryStatus(value string) (EntryStatus, bool) {
	normalized := EntryStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := entryStatusSet[normalized]
	return normalized, ok
}

// ParsePriority converts a string into a known Priority. Empty input maps to
// PriorityNormal.
func ParsePriority(value string) (Priority, bool) {
	normalized := Priority(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return PriorityNormal, true
	}
	_, ok := prioritySet[normalized]
	return normalized, ok
}

// Order is a manufacturing order. The engine owns only the overall status and
// the current-department pointer; everything else is intake metadata.
type Order struct {
	ID                int64
	Ref               string
	Description       string
	Priority          Priority
	Status            OrderStatus
	CurrentDepartment string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Entry records one order's visit to one department. Re-entry via a manual
// move creates a fresh row so the timeline history is never overwritten.
type Entry struct {
	ID                int64
	OrderID           int64
	DepartmentID      string
	Status            EntryStatus
	WorkerID          *int64
	EnteredAt         time.Time
	StartedAt         *time.Time
	ExitedAt          *time.Time
	CompletionPercent float64
}

// Open reports whether the entry still counts against the one-open-entry
// invariant.
func (e *Entry) Open() bool {
	return e.Status != EntryCompleted
}

// QueueEntry is an order waiting for a worker in one department. Positions
// within a department are dense, starting at 0.
type QueueEntry struct {
	ID           int64
	DepartmentID string
	OrderID      int64
	OrderRef     string
	Priority     Priority
	Position     int
	QueuedAt     time.Time
}

// Worker is an externally managed roster record. The engine reads identity
// and availability and never mutates anything beyond the active flag.
type Worker struct {
	ID           int64
	Ref          string
	Name         string
	DepartmentID string
	Active       bool
	Workload     int
	CreatedAt    time.Time
}

// HealthSummary aggregates entry counts for diagnostics.
type HealthSummary struct {
	Orders        int
	InFactory     int
	Completed     int
	OpenEntries   int
	QueuedEntries int
}
