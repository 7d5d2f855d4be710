package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Failure carries a typed rejection across the transport boundary.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Assignment describes a resolution outcome in a transport-friendly format.
type Assignment struct {
	Assigned      bool   `json:"assigned"`
	WorkerID      string `json:"workerId,omitempty"`
	WorkerName    string `json:"workerName,omitempty"`
	Queued        bool   `json:"queued"`
	QueuePosition int    `json:"queuePosition"`
}

// DispatchOutcome is one order's slot in a bulk send-to-factory response.
type DispatchOutcome struct {
	OrderID    string      `json:"orderId"`
	Department string      `json:"department,omitempty"`
	Assignment *Assignment `json:"assignment,omitempty"`
	Error      *Failure    `json:"error,omitempty"`
}

// MoveOutcome reports a manual move.
type MoveOutcome struct {
	OrderID       string     `json:"orderId"`
	NewDepartment string     `json:"newDepartment"`
	Moved         bool       `json:"moved"`
	Assignment    Assignment `json:"assignment"`
}

// DrainOutcome reports the queue-drain assignment for a vacated department.
type DrainOutcome struct {
	OrderID    string     `json:"orderId"`
	Assignment Assignment `json:"assignment"`
}

// CompleteOutcome reports a department completion with its cascade and drain.
type CompleteOutcome struct {
	OrderID        string        `json:"orderId"`
	Department     string        `json:"department"`
	Completed      bool          `json:"completed"`
	OrderCompleted bool          `json:"orderCompleted"`
	NextDepartment string        `json:"nextDepartment,omitempty"`
	NextAssignment *Assignment   `json:"nextAssignment,omitempty"`
	QueueDrain     *DrainOutcome `json:"queueDrainAssignment,omitempty"`
}

// ReassignOutcome reports an in-place assignee change. Reassignment requires
// an in-progress entry, so the queue fields are always their zero values; they
// are kept so the payload matches the other assignment-shaped responses.
type ReassignOutcome struct {
	Assigned      bool   `json:"assigned"`
	WorkerID      string `json:"workerId"`
	WorkerName    string `json:"workerName"`
	Queued        bool   `json:"queued"`
	QueuePosition int    `json:"queuePosition"`
	Message       string `json:"message"`
}

// UnassignOutcome reports a worker unbinding and the follow-up resolution.
type UnassignOutcome struct {
	Unassigned bool       `json:"unassigned"`
	Resolution Assignment `json:"resolution"`
}

// SelfAssignOutcome reports a worker claiming a pending entry.
type SelfAssignOutcome struct {
	Assigned bool `json:"assigned"`
}

// QueueEntryView is one waiting order in a department queue.
type QueueEntryView struct {
	OrderID       string `json:"orderId"`
	Priority      string `json:"priority"`
	QueuePosition int    `json:"queuePosition"`
	QueuedAt      string `json:"queuedAt,omitempty"`
}

// QueueView is the external snapshot of a department queue.
type QueueView struct {
	DepartmentID   string           `json:"departmentId"`
	DepartmentName string           `json:"departmentName"`
	QueueLength    int              `json:"queueLength"`
	Queue          []QueueEntryView `json:"queue"`
}

// BoardCard is one order on a board column.
type BoardCard struct {
	OrderID           string  `json:"orderId"`
	Description       string  `json:"description,omitempty"`
	Priority          string  `json:"priority"`
	Status            string  `json:"status"`
	WorkerID          string  `json:"workerId,omitempty"`
	WorkerName        string  `json:"workerName,omitempty"`
	EnteredAt         string  `json:"enteredAt,omitempty"`
	CompletionPercent float64 `json:"completionPercent"`
	QueuePosition     *int    `json:"queuePosition,omitempty"`
}

// BoardColumn is one department lane.
type BoardColumn struct {
	DepartmentID   string      `json:"departmentId"`
	DepartmentName string      `json:"departmentName"`
	Position       int         `json:"position"`
	Cards          []BoardCard `json:"cards"`
	QueueLength    int         `json:"queueLength"`
	UrgentCount    int         `json:"urgentCount"`
}

// BoardView is the full kanban projection.
type BoardView struct {
	Columns     []BoardColumn `json:"columns"`
	GeneratedAt string        `json:"generatedAt"`
}

// TimelineStepView is one visit in an order's history.
type TimelineStepView struct {
	DepartmentID      string  `json:"departmentId"`
	DepartmentName    string  `json:"departmentName"`
	Status            string  `json:"status"`
	WorkerID          string  `json:"workerId,omitempty"`
	WorkerName        string  `json:"workerName,omitempty"`
	EnteredAt         string  `json:"enteredAt,omitempty"`
	StartedAt         string  `json:"startedAt,omitempty"`
	ExitedAt          string  `json:"exitedAt,omitempty"`
	CompletionPercent float64 `json:"completionPercent"`
}

// TimelineView is an order's chronological department history.
type TimelineView struct {
	OrderID     string             `json:"orderId"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Steps       []TimelineStepView `json:"steps"`
}

// OrderView describes an order in a transport-friendly format.
type OrderView struct {
	OrderID           string `json:"orderId"`
	Description       string `json:"description,omitempty"`
	Priority          string `json:"priority"`
	Status            string `json:"status"`
	CurrentDepartment string `json:"currentDepartment,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// WorkerView describes a roster entry with its live workload.
type WorkerView struct {
	WorkerID     string `json:"workerId"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId"`
	Active       bool   `json:"active"`
	Workload     int    `json:"workload"`
}

// DepartmentView describes one pipeline stage.
type DepartmentView struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	Terminal     bool   `json:"terminal"`
}

// HealthView summarizes engine state for diagnostics.
type HealthView struct {
	Orders        int `json:"orders"`
	InFactory     int `json:"inFactory"`
	Completed     int `json:"completed"`
	OpenEntries   int `json:"openEntries"`
	QueuedEntries int `json:"queuedEntries"`
}
