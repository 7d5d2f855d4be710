package workflow

import (
	"context"
	"fmt"

	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
)

// ReassignDepartment rebinds the assignee of an in-progress entry in place.
// No status change, no timestamp change. Reassigning to the current assignee
// is an idempotent no-op.
func (o *Orchestrator) ReassignDepartment(ctx context.Context, orderRef, departmentID, workerRef string) (ReassignResult, error) {
	dept, err := o.department(departmentID)
	if err != nil {
		return ReassignResult{}, err
	}
	worker, err := o.workerByRef(ctx, workerRef)
	if err != nil {
		return ReassignResult{}, err
	}
	if worker.DepartmentID != dept.ID {
		return ReassignResult{}, services.Wrap(services.ErrValidation, "orchestrator", "reassign",
			fmt.Sprintf("worker %s is homed in %s, not %s", worker.Ref, worker.DepartmentID, dept.ID), nil)
	}
	order, err := o.orderByRef(ctx, orderRef)
	if err != nil {
		return ReassignResult{}, err
	}

	unlock := o.orderLocks.Lock(order.Ref)
	defer unlock()

	order, err = o.orderByRef(ctx, orderRef)
	if err != nil {
		return ReassignResult{}, err
	}
	if err := requireInFactory(order); err != nil {
		return ReassignResult{}, err
	}

	entry, err := o.requireEntryStatus(ctx, order, dept.ID, store.EntryInProgress, "reassign")
	if err != nil {
		return ReassignResult{}, err
	}

	if entry.WorkerID != nil && *entry.WorkerID == worker.ID {
		return ReassignResult{
			Assigned:   true,
			WorkerRef:  worker.Ref,
			WorkerName: worker.Name,
			Message:    "worker already assigned",
		}, nil
	}

	entry.WorkerID = &worker.ID
	if err := o.store.UpdateEntry(ctx, entry); err != nil {
		return ReassignResult{}, services.Wrap(services.ErrInternal, "orchestrator", "rebind worker", "", err)
	}

	o.logger.Info("entry reassigned",
		logging.String(logging.FieldOrder, order.Ref),
		logging.String(logging.FieldDepartment, dept.ID),
		logging.String(logging.FieldWorker, worker.Ref))
	o.notify(func(ctx context.Context) error {
		return o.notifier.NotifyAssignment(ctx, order.Ref, dept.Name, worker.Name)
	})

	return ReassignResult{
		Assigned:   true,
		WorkerRef:  worker.Ref,
		WorkerName: worker.Name,
		Message:    "worker reassigned",
	}, nil
}

// UnassignWorker reverts an in-progress entry to PENDING_ASSIGNMENT, clears
// the assignee, and immediately runs the resolver again for the same entry.
// Unless a worker happens to be free it re-queues at the back.
func (o *Orchestrator) UnassignWorker(ctx context.Context, orderRef, departmentID string) (UnassignResult, error) {
	dept, err := o.department(departmentID)
	if err != nil {
		return UnassignResult{}, err
	}
	order, err := o.orderByRef(ctx, orderRef)
	if err != nil {
		return UnassignResult{}, err
	}

	unlock := o.orderLocks.Lock(order.Ref)
	defer unlock()

	order, err = o.orderByRef(ctx, orderRef)
	if err != nil {
		return UnassignResult{}, err
	}
	if err := requireInFactory(order); err != nil {
		return UnassignResult{}, err
	}

	entry, err := o.requireEntryStatus(ctx, order, dept.ID, store.EntryInProgress, "unassign")
	if err != nil {
		return UnassignResult{}, err
	}

	entry.Status = store.EntryPendingAssignment
	entry.WorkerID = nil
	entry.StartedAt = nil
	if err := o.store.UpdateEntry(ctx, entry); err != nil {
		return UnassignResult{}, services.Wrap(services.ErrInternal, "orchestrator", "clear assignee", "", err)
	}

	outcome, err := o.resolver.Resolve(ctx, entry)
	if err != nil {
		return UnassignResult{}, err
	}

	result := UnassignResult{Unassigned: true, Resolution: fromOutcome(outcome)}
	o.logger.Info("worker unassigned",
		logging.String(logging.FieldOrder, order.Ref),
		logging.String(logging.FieldDepartment, dept.ID),
		logging.Bool("reassigned", result.Resolution.Assigned),
		logging.Bool("requeued", result.Resolution.Queued))
	o.announce(order.Ref, dept.Name, result.Resolution)
	return result, nil
}

// SelfAssign lets a worker claim a pending entry in their home department.
// It behaves like a resolver assignment with the worker forced rather than
// chosen by policy, and fails if the entry is already in progress.
func (o *Orchestrator) SelfAssign(ctx context.Context, orderRef, departmentID, workerRef string) (SelfAssignResult, error) {
	dept, err := o.department(departmentID)
	if err != nil {
		return SelfAssignResult{}, err
	}
	worker, err := o.workerByRef(ctx, workerRef)
	if err != nil {
		return SelfAssignResult{}, err
	}
	if worker.DepartmentID != dept.ID {
		return SelfAssignResult{}, services.Wrap(services.ErrValidation, "orchestrator", "self-assign",
			fmt.Sprintf("worker %s is homed in %s, not %s", worker.Ref, worker.DepartmentID, dept.ID), nil)
	}
	order, err := o.orderByRef(ctx, orderRef)
	if err != nil {
		return SelfAssignResult{}, err
	}

	unlock := o.orderLocks.Lock(order.Ref)
	defer unlock()

	order, err = o.orderByRef(ctx, orderRef)
	if err != nil {
		return SelfAssignResult{}, err
	}
	if err := requireInFactory(order); err != nil {
		return SelfAssignResult{}, err
	}

	entry, err := o.requireEntryStatus(ctx, order, dept.ID, store.EntryPendingAssignment, "self-assign")
	if err != nil {
		return SelfAssignResult{}, err
	}

	if err := o.resolver.Bind(ctx, entry, worker); err != nil {
		return SelfAssignResult{}, err
	}

	o.logger.Info("worker self-assigned",
		logging.String(logging.FieldOrder, order.Ref),
		logging.String(logging.FieldDepartment, dept.ID),
		logging.String(logging.FieldWorker, worker.Ref))
	o.notify(func(ctx context.Context) error {
		return o.notifier.NotifyAssignment(ctx, order.Ref, dept.Name, worker.Name)
	})

	return SelfAssignResult{Assigned: true}, nil
}

func (o *Orchestrator) workerByRef(ctx context.Context, ref string) (*store.Worker, error) {
	if ref == "" {
		return nil, services.Wrap(services.ErrValidation, "orchestrator", "lookup worker", "worker reference is required", nil)
	}
	worker, err := o.store.GetWorkerByRef(ctx, ref)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "orchestrator", "lookup worker", "", err)
	}
	if worker == nil {
		return nil, services.Wrap(services.ErrNotFound, "orchestrator", "lookup worker", fmt.Sprintf("worker %q does not exist", ref), nil)
	}
	return worker, nil
}

func (o *Orchestrator) requireEntryStatus(ctx context.Context, order *store.Order, departmentID string, want store.EntryStatus, operation string) (*store.Entry, error) {
	entry, err := o.store.OpenEntryFor(ctx, order.ID, departmentID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "orchestrator", operation, "", err)
	}
	if entry == nil {
		return nil, services.Wrap(services.ErrStateConflict, "orchestrator", operation,
			fmt.Sprintf("order %s has no open entry in %s", order.Ref, departmentID), nil)
	}
	if entry.Status != want {
		return nil, services.Wrap(services.ErrStateConflict, "orchestrator", operation,
			fmt.Sprintf("entry for order %s in %s is %s, expected %s", order.Ref, departmentID, entry.Status, want), nil)
	}
	return entry, nil
}
