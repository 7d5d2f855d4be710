package workflow

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/catalog"
	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
)

// CompleteDepartment marks the order's work in a department as finished and
// lets the consequences settle inline: the cascade creates the successor
// entry and resolves it, and the vacated department's queue is drained now
// that a worker there is free. On the terminal department the order itself
// completes.
func (o *Orchestrator) CompleteDepartment(ctx context.Context, orderRef, departmentID string, metrics *Metrics) (CompleteResult, error) {
	dept, err := o.department(departmentID)
	if err != nil {
		return CompleteResult{}, err
	}
	order, err := o.orderByRef(ctx, orderRef)
	if err != nil {
		return CompleteResult{}, err
	}

	unlock := o.orderLocks.Lock(order.Ref)
	defer unlock()

	order, err = o.orderByRef(ctx, orderRef)
	if err != nil {
		return CompleteResult{}, err
	}
	if err := requireInFactory(order); err != nil {
		return CompleteResult{}, err
	}

	entry, err := o.store.OpenEntryFor(ctx, order.ID, dept.ID)
	if err != nil {
		return CompleteResult{}, services.Wrap(services.ErrInternal, "orchestrator", "load entry", "", err)
	}
	if entry == nil {
		return CompleteResult{}, services.Wrap(services.ErrStateConflict, "orchestrator", "complete department",
			fmt.Sprintf("order %s has no open entry in %s", order.Ref, dept.ID), nil)
	}
	if entry.Status != store.EntryInProgress {
		return CompleteResult{}, services.Wrap(services.ErrStateConflict, "orchestrator", "complete department",
			fmt.Sprintf("entry for order %s in %s is %s, expected %s", order.Ref, dept.ID, entry.Status, store.EntryInProgress), nil)
	}

	now := time.Now().UTC()
	entry.Status = store.EntryCompleted
	entry.ExitedAt = &now
	entry.CompletionPercent = 100
	if metrics != nil && metrics.CompletionPercent != nil {
		entry.CompletionPercent = clampPercent(*metrics.CompletionPercent)
	}
	if err := o.store.UpdateEntry(ctx, entry); err != nil {
		return CompleteResult{}, services.Wrap(services.ErrInternal, "orchestrator", "complete entry", "", err)
	}

	result := CompleteResult{OrderRef: order.Ref, Department: dept.ID, Completed: true}

	successor, hasNext := o.catalog.Next(dept.ID)
	if hasNext {
		next, err := o.store.CreateEntry(ctx, order.ID, successor.ID)
		if err != nil {
			return CompleteResult{}, services.Wrap(services.ErrInternal, "orchestrator", "create successor entry", "", err)
		}
		order.CurrentDepartment = successor.ID
		if err := o.store.UpdateOrder(ctx, order); err != nil {
			return CompleteResult{}, services.Wrap(services.ErrInternal, "orchestrator", "advance order", "", err)
		}

		outcome, err := o.resolver.Resolve(ctx, next)
		if err != nil {
			return CompleteResult{}, err
		}
		res := fromOutcome(outcome)
		result.NextDepartment = successor.ID
		result.NextAssignment = &res
		o.announce(order.Ref, successor.Name, res)
	} else {
		order.Status = store.OrderCompleted
		order.CurrentDepartment = ""
		if err := o.store.UpdateOrder(ctx, order); err != nil {
			return CompleteResult{}, services.Wrap(services.ErrInternal, "orchestrator", "complete order", "", err)
		}
		result.OrderCompleted = true
		o.notify(func(ctx context.Context) error {
			return o.notifier.NotifyOrderCompleted(ctx, order.Ref)
		})
	}

	o.notify(func(ctx context.Context) error {
		return o.notifier.NotifyDepartmentCompleted(ctx, order.Ref, dept.Name)
	})

	// Completing the entry freed its worker, so the vacated department can
	// hand its queue front to the resolver. Independent of the cascade above.
	drain, err := o.drainDepartment(ctx, dept)
	if err != nil {
		o.logger.Warn("queue drain failed",
			logging.String(logging.FieldDepartment, dept.ID),
			logging.Error(err))
	} else {
		result.QueueDrain = drain
	}

	o.logger.Info("department completed",
		logging.String(logging.FieldOrder, order.Ref),
		logging.String(logging.FieldDepartment, dept.ID),
		logging.String("next_department", result.NextDepartment),
		logging.Bool("order_completed", result.OrderCompleted))

	return result, nil
}

// DrainDepartment runs one queue-drain step for a department: the front
// queued order, if any, goes back through the resolver. Exposed for callers
// that change worker availability outside the completion path (activating a
// worker, growing the roster).
func (o *Orchestrator) DrainDepartment(ctx context.Context, departmentID string) (*DrainResult, error) {
	dept, err := o.department(departmentID)
	if err != nil {
		return nil, err
	}
	return o.drainDepartment(ctx, dept)
}

func (o *Orchestrator) drainDepartment(ctx context.Context, dept catalog.Department) (*DrainResult, error) {
	// Peek only: the front order stays at position 0 until the resolver
	// actually binds a worker. Bind clears the queue row; a fruitless drain
	// leaves the FIFO untouched instead of rotating the front to the back.
	unlockDept := o.deptLocks.Lock(dept.ID)
	front, err := o.store.PeekFront(ctx, dept.ID)
	unlockDept()
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "orchestrator", "peek queue front", "", err)
	}
	if front == nil {
		return nil, nil
	}

	// The front order gets its own critical section. A queued order is
	// never mid-completion, so waiting here cannot form a lock cycle.
	unlock := o.orderLocks.Lock(front.OrderRef)
	defer unlock()

	entry, err := o.store.OpenEntryFor(ctx, front.OrderID, dept.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "orchestrator", "load drained entry", "", err)
	}
	if entry == nil || entry.Status != store.EntryPendingAssignment {
		// A concurrent move relocated the order between the peek and lock
		// acquisition. Nothing to resolve here.
		return nil, nil
	}

	outcome, err := o.resolver.Resolve(ctx, entry)
	if err != nil {
		return nil, err
	}

	result := &DrainResult{OrderRef: front.OrderRef, Assignment: fromOutcome(outcome)}
	o.logger.Info("queue drained",
		logging.String(logging.FieldOrder, front.OrderRef),
		logging.String(logging.FieldDepartment, dept.ID),
		logging.Bool("assigned", result.Assignment.Assigned))
	o.announce(front.OrderRef, dept.Name, result.Assignment)
	return result, nil
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
