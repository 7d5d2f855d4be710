package workflow

import (
	"context"
	"time"

	"atelier/internal/logging"
	"atelier/internal/services"
)

// MoveToDepartment is the manual override path: it can target any department,
// not just the pipeline successor. The order's open tracking entry (if any)
// is force-completed, any stale queue entry is removed, a fresh entry is
// created in the target department, and the resolver runs for it. Moving an
// order to its current department is an idempotent no-op.
func (o *Orchestrator) MoveToDepartment(ctx context.Context, orderRef, departmentID string) (MoveResult, error) {
	target, err := o.department(departmentID)
	if err != nil {
		return MoveResult{}, err
	}
	order, err := o.orderByRef(ctx, orderRef)
	if err != nil {
		return MoveResult{}, err
	}

	unlock := o.orderLocks.Lock(order.Ref)
	defer unlock()

	order, err = o.orderByRef(ctx, orderRef)
	if err != nil {
		return MoveResult{}, err
	}
	if err := requireInFactory(order); err != nil {
		return MoveResult{}, err
	}

	result := MoveResult{OrderRef: order.Ref, Department: target.ID}
	if order.CurrentDepartment == target.ID {
		return result, nil
	}

	// The open entry's department is authoritative for queue cleanup; the
	// current-department pointer tracks it but the entry is the state machine.
	open, err := o.store.OpenEntry(ctx, order.ID)
	if err != nil {
		return MoveResult{}, services.Wrap(services.ErrInternal, "orchestrator", "load open entry", "", err)
	}
	if open != nil {
		if _, err := o.store.RemoveQueued(ctx, open.DepartmentID, order.ID); err != nil {
			return MoveResult{}, services.Wrap(services.ErrInternal, "orchestrator", "remove stale queue entry", "", err)
		}
	}
	// Force-completing an in-progress entry frees its worker, but unlike
	// CompleteDepartment the vacated department's queue is not drained here;
	// it drains on the next completion or an explicit DrainDepartment call.
	if _, err := o.store.ForceCompleteOpen(ctx, order.ID, time.Now().UTC()); err != nil {
		return MoveResult{}, services.Wrap(services.ErrInternal, "orchestrator", "force-complete open entry", "", err)
	}

	entry, err := o.store.CreateEntry(ctx, order.ID, target.ID)
	if err != nil {
		return MoveResult{}, services.Wrap(services.ErrInternal, "orchestrator", "create target entry", "", err)
	}

	order.CurrentDepartment = target.ID
	if err := o.store.UpdateOrder(ctx, order); err != nil {
		return MoveResult{}, services.Wrap(services.ErrInternal, "orchestrator", "update current department", "", err)
	}

	outcome, err := o.resolver.Resolve(ctx, entry)
	if err != nil {
		return MoveResult{}, err
	}

	result.Moved = true
	result.Assignment = fromOutcome(outcome)

	o.logger.Info("order moved",
		logging.String(logging.FieldOrder, order.Ref),
		logging.String(logging.FieldDepartment, target.ID),
		logging.Bool("assigned", result.Assignment.Assigned),
		logging.Bool("queued", result.Assignment.Queued))
	o.announce(order.Ref, target.Name, result.Assignment)

	return result, nil
}
