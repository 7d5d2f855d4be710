package ipc

import "atelier/internal/api"

// Failure mirrors the API rejection shape for IPC callers.
type Failure = api.Failure

// Assignment mirrors the API resolution DTO.
type Assignment = api.Assignment

// OrderView mirrors the API order DTO.
type OrderView = api.OrderView

// WorkerView mirrors the API worker DTO.
type WorkerView = api.WorkerView

// DepartmentView mirrors the API department DTO.
type DepartmentView = api.DepartmentView

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse reports liveness.
type PingResponse struct {
	Alive bool `json:"alive"`
	PID   int  `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime and store health information.
type StatusResponse struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	DatabasePath string         `json:"database_path"`
	LockPath     string         `json:"lock_path"`
	Departments  int            `json:"departments"`
	Health       api.HealthView `json:"health"`
	HealthError  string         `json:"health_error,omitempty"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// OrderCreateRequest registers a new draft order.
type OrderCreateRequest struct {
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// OrderCreateResponse returns the minted order.
type OrderCreateResponse struct {
	Order OrderView `json:"order"`
	Error *Failure  `json:"error,omitempty"`
}

// OrderListRequest filters orders by optional statuses.
type OrderListRequest struct {
	Statuses []string `json:"statuses"`
}

// OrderListResponse contains order records.
type OrderListResponse struct {
	Orders []OrderView `json:"orders"`
	Error  *Failure    `json:"error,omitempty"`
}

// WorkerAddRequest registers a worker in a department.
type WorkerAddRequest struct {
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId"`
}

// WorkerAddResponse returns the minted worker.
type WorkerAddResponse struct {
	Worker WorkerView `json:"worker"`
	Error  *Failure   `json:"error,omitempty"`
}

// WorkerSetActiveRequest toggles a worker's availability.
type WorkerSetActiveRequest struct {
	WorkerID string `json:"workerId"`
	Active   bool   `json:"active"`
}

// WorkerSetActiveResponse reports the toggle result.
type WorkerSetActiveResponse struct {
	Updated bool     `json:"updated"`
	Error   *Failure `json:"error,omitempty"`
}

// WorkerListRequest fetches the roster.
type WorkerListRequest struct{}

// WorkerListResponse contains roster records with live workloads.
type WorkerListResponse struct {
	Workers []WorkerView `json:"workers"`
	Error   *Failure     `json:"error,omitempty"`
}

// DepartmentListRequest fetches the pipeline catalog.
type DepartmentListRequest struct{}

// DepartmentListResponse contains the ordered pipeline stages.
type DepartmentListResponse struct {
	Departments []DepartmentView `json:"departments"`
}

// SendRequest dispatches draft orders into the factory pipeline.
type SendRequest struct {
	OrderIDs []string `json:"orderIds"`
}

// SendResponse carries one outcome slot per requested order.
type SendResponse struct {
	Results []api.DispatchOutcome `json:"results"`
}

// MoveRequest moves an order to an arbitrary department.
type MoveRequest struct {
	OrderID      string `json:"orderId"`
	DepartmentID string `json:"departmentId"`
}

// MoveResponse reports the move outcome.
type MoveResponse struct {
	Result api.MoveOutcome `json:"result"`
	Error  *Failure        `json:"error,omitempty"`
}

// CompleteRequest completes an order's work in a department.
type CompleteRequest struct {
	OrderID           string   `json:"orderId"`
	DepartmentID      string   `json:"departmentId"`
	CompletionPercent *float64 `json:"completionPercent,omitempty"`
}

// CompleteResponse reports completion, cascade, and queue drain.
type CompleteResponse struct {
	Result api.CompleteOutcome `json:"result"`
	Error  *Failure            `json:"error,omitempty"`
}

// ReassignRequest changes the assignee of an in-progress entry.
type ReassignRequest struct {
	OrderID      string `json:"orderId"`
	DepartmentID string `json:"departmentId"`
	WorkerID     string `json:"workerId"`
}

// ReassignResponse reports the reassignment outcome.
type ReassignResponse struct {
	Result api.ReassignOutcome `json:"result"`
	Error  *Failure            `json:"error,omitempty"`
}

// UnassignRequest removes the assignee from an in-progress entry.
type UnassignRequest struct {
	OrderID      string `json:"orderId"`
	DepartmentID string `json:"departmentId"`
}

// UnassignResponse reports the unbinding and follow-up resolution.
type UnassignResponse struct {
	Result api.UnassignOutcome `json:"result"`
	Error  *Failure            `json:"error,omitempty"`
}

// SelfAssignRequest claims a pending entry for a worker.
type SelfAssignRequest struct {
	OrderID      string `json:"orderId"`
	DepartmentID string `json:"departmentId"`
	WorkerID     string `json:"workerId"`
}

// SelfAssignResponse reports the claim outcome.
type SelfAssignResponse struct {
	Result api.SelfAssignOutcome `json:"result"`
	Error  *Failure              `json:"error,omitempty"`
}

// QueueRequest fetches one department's waiting queue.
type QueueRequest struct {
	DepartmentID string `json:"departmentId"`
}

// QueueResponse contains the queue snapshot.
type QueueResponse struct {
	Queue api.QueueView `json:"queue"`
	Error *Failure      `json:"error,omitempty"`
}

// DrainRequest retries assignment for the front of a department queue.
type DrainRequest struct {
	DepartmentID string `json:"departmentId"`
}

// DrainResponse reports the drain outcome, if any order was waiting.
type DrainResponse struct {
	Drained bool              `json:"drained"`
	Result  *api.DrainOutcome `json:"result,omitempty"`
	Error   *Failure          `json:"error,omitempty"`
}

// BoardRequest fetches the kanban projection.
type BoardRequest struct{}

// BoardResponse contains the board view.
type BoardResponse struct {
	Board api.BoardView `json:"board"`
	Error *Failure      `json:"error,omitempty"`
}

// TimelineRequest fetches one order's department history.
type TimelineRequest struct {
	OrderID string `json:"orderId"`
}

// TimelineResponse contains the timeline view.
type TimelineResponse struct {
	Timeline api.TimelineView `json:"timeline"`
	Error    *Failure         `json:"error,omitempty"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the test send result.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
