package board

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/catalog"
	"atelier/internal/services"
	"atelier/internal/store"
)

// Card is one order's presence in a board column.
type Card struct {
	OrderRef          string
	Description       string
	Priority          store.Priority
	Status            store.EntryStatus
	WorkerRef         string
	WorkerName        string
	EnteredAt         time.Time
	CompletionPercent float64
	QueuePosition     *int
}

// Column is one department's lane on the board.
type Column struct {
	DepartmentID   string
	DepartmentName string
	Position       int
	Cards          []Card
	QueueLength    int
	UrgentCount    int
}

// Board is the full projection across the pipeline.
type Board struct {
	Columns     []Column
	GeneratedAt time.Time
}

// TimelineStep is one visit in an order's department history.
type TimelineStep struct {
	DepartmentID      string
	DepartmentName    string
	Status            store.EntryStatus
	WorkerRef         string
	WorkerName        string
	EnteredAt         time.Time
	StartedAt         *time.Time
	ExitedAt          *time.Time
	CompletionPercent float64
}

// Timeline is an order's full visit history, oldest first. Manual moves that
// revisit a department produce separate steps; history is never overwritten.
type Timeline struct {
	OrderRef    string
	Description string
	Status      store.OrderStatus
	Steps       []TimelineStep
}

// Projector computes board and timeline views from the tracking store.
type Projector struct {
	store   *store.Store
	catalog *catalog.Catalog
}

// NewProjector constructs a projector over the given store and pipeline.
func NewProjector(st *store.Store, cat *catalog.Catalog) *Projector {
	return &Projector{store: st, catalog: cat}
}

// Board folds the open tracking entries into one column per department.
func (p *Projector) Board(ctx context.Context) (Board, error) {
	orders, err := p.store.ListOrders(ctx, store.OrderInFactory)
	if err != nil {
		return Board{}, services.Wrap(services.ErrInternal, "board", "list orders", "", err)
	}
	ordersByID := make(map[int64]*store.Order, len(orders))
	for _, order := range orders {
		ordersByID[order.ID] = order
	}

	workersByID, err := p.workerIndex(ctx)
	if err != nil {
		return Board{}, err
	}

	board := Board{GeneratedAt: time.Now().UTC()}
	for _, dept := range p.catalog.Departments() {
		column := Column{
			DepartmentID:   dept.ID,
			DepartmentName: dept.Name,
			Position:       dept.Position,
		}

		entries, err := p.store.OpenEntriesByDepartment(ctx, dept.ID)
		if err != nil {
			return Board{}, services.Wrap(services.ErrInternal, "board", "load entries", "", err)
		}
		queued, err := p.store.QueueFor(ctx, dept.ID)
		if err != nil {
			return Board{}, services.Wrap(services.ErrInternal, "board", "load queue", "", err)
		}
		positions := make(map[int64]int, len(queued))
		for _, qe := range queued {
			positions[qe.OrderID] = qe.Position
		}
		column.QueueLength = len(queued)

		for _, entry := range entries {
			order := ordersByID[entry.OrderID]
			if order == nil {
				// Entry belongs to an order that left the factory between
				// reads; skip rather than show a phantom card.
				continue
			}
			card := Card{
				OrderRef:          order.Ref,
				Description:       order.Description,
				Priority:          order.Priority,
				Status:            entry.Status,
				EnteredAt:         entry.EnteredAt,
				CompletionPercent: entry.CompletionPercent,
			}
			if entry.WorkerID != nil {
				if worker := workersByID[*entry.WorkerID]; worker != nil {
					card.WorkerRef = worker.Ref
					card.WorkerName = worker.Name
				}
			}
			if position, ok := positions[entry.OrderID]; ok {
				value := position
				card.QueuePosition = &value
			}
			if order.Priority == store.PriorityUrgent {
				column.UrgentCount++
			}
			column.Cards = append(column.Cards, card)
		}

		board.Columns = append(board.Columns, column)
	}
	return board, nil
}

// Timeline returns an order's chronological department history.
func (p *Projector) Timeline(ctx context.Context, orderRef string) (Timeline, error) {
	order, err := p.store.GetOrderByRef(ctx, orderRef)
	if err != nil {
		return Timeline{}, services.Wrap(services.ErrInternal, "board", "lookup order", "", err)
	}
	if order == nil {
		return Timeline{}, services.Wrap(services.ErrNotFound, "board", "lookup order", fmt.Sprintf("order %q does not exist", orderRef), nil)
	}

	entries, err := p.store.EntriesForOrder(ctx, order.ID)
	if err != nil {
		return Timeline{}, services.Wrap(services.ErrInternal, "board", "load history", "", err)
	}
	workersByID, err := p.workerIndex(ctx)
	if err != nil {
		return Timeline{}, err
	}

	timeline := Timeline{
		OrderRef:    order.Ref,
		Description: order.Description,
		Status:      order.Status,
		Steps:       make([]TimelineStep, 0, len(entries)),
	}
	for _, entry := range entries {
		step := TimelineStep{
			DepartmentID:      entry.DepartmentID,
			Status:            entry.Status,
			EnteredAt:         entry.EnteredAt,
			StartedAt:         entry.StartedAt,
			ExitedAt:          entry.ExitedAt,
			CompletionPercent: entry.CompletionPercent,
		}
		if dept, ok := p.catalog.Get(entry.DepartmentID); ok {
			step.DepartmentName = dept.Name
		} else {
			step.DepartmentName = entry.DepartmentID
		}
		if entry.WorkerID != nil {
			if worker := workersByID[*entry.WorkerID]; worker != nil {
				step.WorkerRef = worker.Ref
				step.WorkerName = worker.Name
			}
		}
		timeline.Steps = append(timeline.Steps, step)
	}
	return timeline, nil
}

func (p *Projector) workerIndex(ctx context.Context) (map[int64]*store.Worker, error) {
	workers, err := p.store.ListWorkers(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "board", "list workers", "", err)
	}
	index := make(map[int64]*store.Worker, len(workers))
	for _, worker := range workers {
		index[worker.ID] = worker
	}
	return index, nil
}
