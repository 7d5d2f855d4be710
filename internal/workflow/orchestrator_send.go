package workflow

import (
	"context"
	"fmt"

	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
)

// SendToFactory moves each order into the factory: status becomes IN_FACTORY,
// a tracking entry is created for the first pipeline department, and the
// resolver either assigns a worker or queues the order. Each order's outcome
// is independent; one failure never rolls back the others.
func (o *Orchestrator) SendToFactory(ctx context.Context, orderRefs []string) []DispatchResult {
	results := make([]DispatchResult, 0, len(orderRefs))
	for _, ref := range orderRefs {
		result := o.dispatchOne(ctx, ref)
		if result.Err != nil {
			o.logger.Warn("send to factory rejected",
				logging.String(logging.FieldOrder, ref),
				logging.Error(result.Err))
		}
		results = append(results, result)
	}
	return results
}

func (o *Orchestrator) dispatchOne(ctx context.Context, ref string) DispatchResult {
	result := DispatchResult{OrderRef: ref}

	order, err := o.orderByRef(ctx, ref)
	if err != nil {
		result.Err = err
		return result
	}

	unlock := o.orderLocks.Lock(order.Ref)
	defer unlock()

	// Re-read under the lock; a concurrent dispatch may have won the race.
	order, err = o.orderByRef(ctx, ref)
	if err != nil {
		result.Err = err
		return result
	}
	if order.Status != store.OrderDraft {
		result.Err = services.Wrap(services.ErrStateConflict, "orchestrator", "send to factory",
			fmt.Sprintf("order %s has status %s, expected %s", order.Ref, order.Status, store.OrderDraft), nil)
		return result
	}

	first := o.catalog.First()
	entry, err := o.store.CreateEntry(ctx, order.ID, first.ID)
	if err != nil {
		result.Err = services.Wrap(services.ErrInternal, "orchestrator", "create first entry", "", err)
		return result
	}

	order.Status = store.OrderInFactory
	order.CurrentDepartment = first.ID
	if err := o.store.UpdateOrder(ctx, order); err != nil {
		result.Err = services.Wrap(services.ErrInternal, "orchestrator", "mark in factory", "", err)
		return result
	}

	outcome, err := o.resolver.Resolve(ctx, entry)
	if err != nil {
		result.Err = err
		return result
	}

	res := fromOutcome(outcome)
	result.Department = first.ID
	result.Assignment = &res

	o.logger.Info("order sent to factory",
		logging.String(logging.FieldOrder, order.Ref),
		logging.String(logging.FieldDepartment, first.ID),
		logging.Bool("assigned", res.Assigned),
		logging.Bool("queued", res.Queued))
	o.notify(func(ctx context.Context) error {
		return o.notifier.NotifyOrderSent(ctx, order.Ref, first.Name)
	})
	o.announce(order.Ref, first.Name, res)

	return result
}
