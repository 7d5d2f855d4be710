package api

import (
	"time"

	"atelier/internal/board"
	"atelier/internal/catalog"
	"atelier/internal/services"
	"atelier/internal/store"
	"atelier/internal/workflow"
)

// FailureFromError maps a typed engine rejection to its transport shape.
func FailureFromError(err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: services.Kind(err), Message: err.Error()}
}

// FromAssignment converts a workflow resolution outcome.
func FromAssignment(a workflow.Assignment) Assignment {
	return Assignment{
		Assigned:      a.Assigned,
		WorkerID:      a.WorkerRef,
		WorkerName:    a.WorkerName,
		Queued:        a.Queued,
		QueuePosition: a.QueuePosition,
	}
}

// FromDispatchResults converts bulk dispatch outcomes slot by slot.
func FromDispatchResults(results []workflow.DispatchResult) []DispatchOutcome {
	outcomes := make([]DispatchOutcome, 0, len(results))
	for _, result := range results {
		outcome := DispatchOutcome{
			OrderID:    result.OrderRef,
			Department: result.Department,
			Error:      FailureFromError(result.Err),
		}
		if result.Assignment != nil {
			converted := FromAssignment(*result.Assignment)
			outcome.Assignment = &converted
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// FromMoveResult converts a manual move outcome.
func FromMoveResult(result workflow.MoveResult) MoveOutcome {
	return MoveOutcome{
		OrderID:       result.OrderRef,
		NewDepartment: result.Department,
		Moved:         result.Moved,
		Assignment:    FromAssignment(result.Assignment),
	}
}

// FromCompleteResult converts a completion outcome, cascade and drain included.
func FromCompleteResult(result workflow.CompleteResult) CompleteOutcome {
	outcome := CompleteOutcome{
		OrderID:        result.OrderRef,
		Department:     result.Department,
		Completed:      result.Completed,
		OrderCompleted: result.OrderCompleted,
		NextDepartment: result.NextDepartment,
	}
	if result.NextAssignment != nil {
		converted := FromAssignment(*result.NextAssignment)
		outcome.NextAssignment = &converted
	}
	if result.QueueDrain != nil {
		outcome.QueueDrain = &DrainOutcome{
			OrderID:    result.QueueDrain.OrderRef,
			Assignment: FromAssignment(result.QueueDrain.Assignment),
		}
	}
	return outcome
}

// FromReassignResult converts an in-place reassignment outcome.
func FromReassignResult(result workflow.ReassignResult) ReassignOutcome {
	return ReassignOutcome{
		Assigned:      result.Assigned,
		WorkerID:      result.WorkerRef,
		WorkerName:    result.WorkerName,
		Queued:        false,
		QueuePosition: 0,
		Message:       result.Message,
	}
}

// FromUnassignResult converts an unassignment outcome.
func FromUnassignResult(result workflow.UnassignResult) UnassignOutcome {
	return UnassignOutcome{
		Unassigned: result.Unassigned,
		Resolution: FromAssignment(result.Resolution),
	}
}

// FromQueueSnapshot converts a department queue snapshot.
func FromQueueSnapshot(snapshot workflow.QueueSnapshot) QueueView {
	view := QueueView{
		DepartmentID:   snapshot.DepartmentID,
		DepartmentName: snapshot.DepartmentName,
		QueueLength:    snapshot.Length,
		Queue:          make([]QueueEntryView, 0, len(snapshot.Entries)),
	}
	for _, entry := range snapshot.Entries {
		view.Queue = append(view.Queue, QueueEntryView{
			OrderID:       entry.OrderRef,
			Priority:      string(entry.Priority),
			QueuePosition: entry.Position,
			QueuedAt:      formatTime(entry.QueuedAt),
		})
	}
	return view
}

// FromBoard converts the kanban projection.
func FromBoard(b board.Board) BoardView {
	view := BoardView{
		Columns:     make([]BoardColumn, 0, len(b.Columns)),
		GeneratedAt: formatTime(b.GeneratedAt),
	}
	for _, column := range b.Columns {
		converted := BoardColumn{
			DepartmentID:   column.DepartmentID,
			DepartmentName: column.DepartmentName,
			Position:       column.Position,
			Cards:          make([]BoardCard, 0, len(column.Cards)),
			QueueLength:    column.QueueLength,
			UrgentCount:    column.UrgentCount,
		}
		for _, card := range column.Cards {
			converted.Cards = append(converted.Cards, BoardCard{
				OrderID:           card.OrderRef,
				Description:       card.Description,
				Priority:          string(card.Priority),
				Status:            string(card.Status),
				WorkerID:          card.WorkerRef,
				WorkerName:        card.WorkerName,
				EnteredAt:         formatTime(card.EnteredAt),
				CompletionPercent: card.CompletionPercent,
				QueuePosition:     card.QueuePosition,
			})
		}
		view.Columns = append(view.Columns, converted)
	}
	return view
}

// FromTimeline converts an order timeline.
func FromTimeline(t board.Timeline) TimelineView {
	view := TimelineView{
		OrderID:     t.OrderRef,
		Description: t.Description,
		Status:      string(t.Status),
		Steps:       make([]TimelineStepView, 0, len(t.Steps)),
	}
	for _, step := range t.Steps {
		view.Steps = append(view.Steps, TimelineStepView{
			DepartmentID:      step.DepartmentID,
			DepartmentName:    step.DepartmentName,
			Status:            string(step.Status),
			WorkerID:          step.WorkerRef,
			WorkerName:        step.WorkerName,
			EnteredAt:         formatTime(step.EnteredAt),
			StartedAt:         formatTimePtr(step.StartedAt),
			ExitedAt:          formatTimePtr(step.ExitedAt),
			CompletionPercent: step.CompletionPercent,
		})
	}
	return view
}

// FromOrder converts an order record.
func FromOrder(order *store.Order) OrderView {
	if order == nil {
		return OrderView{}
	}
	return OrderView{
		OrderID:           order.Ref,
		Description:       order.Description,
		Priority:          string(order.Priority),
		Status:            string(order.Status),
		CurrentDepartment: order.CurrentDepartment,
		CreatedAt:         formatTime(order.CreatedAt),
		UpdatedAt:         formatTime(order.UpdatedAt),
	}
}

// FromOrders converts a list of order records.
func FromOrders(orders []*store.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, FromOrder(order))
	}
	return views
}

// FromWorker converts a roster record.
func FromWorker(worker *store.Worker) WorkerView {
	if worker == nil {
		return WorkerView{}
	}
	return WorkerView{
		WorkerID:     worker.Ref,
		Name:         worker.Name,
		DepartmentID: worker.DepartmentID,
		Active:       worker.Active,
		Workload:     worker.Workload,
	}
}

// FromWorkers converts a list of roster records.
func FromWorkers(workers []*store.Worker) []WorkerView {
	views := make([]WorkerView, 0, len(workers))
	for _, worker := range workers {
		views = append(views, FromWorker(worker))
	}
	return views
}

// FromDepartments converts the pipeline catalog.
func FromDepartments(departments []catalog.Department) []DepartmentView {
	views := make([]DepartmentView, 0, len(departments))
	for _, dept := range departments {
		views = append(views, DepartmentView{
			DepartmentID: dept.ID,
			Name:         dept.Name,
			Position:     dept.Position,
			Terminal:     dept.Terminal,
		})
	}
	return views
}

// FromHealth converts the store health summary.
func FromHealth(health store.HealthSummary) HealthView {
	return HealthView{
		Orders:        health.Orders,
		InFactory:     health.InFactory,
		Completed:     health.Completed,
		OpenEntries:   health.OpenEntries,
		QueuedEntries: health.QueuedEntries,
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(dateTimeFormat)
}

func formatTimePtr(value *time.Time) string {
	if value == nil {
		return ""
	}
	return formatTime(*value)
}
