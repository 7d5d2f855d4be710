package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"atelier/internal/assignment"
	"atelier/internal/catalog"
	"atelier/internal/logging"
	"atelier/internal/notifications"
	"atelier/internal/services"
	"atelier/internal/store"
)

// Orchestrator exposes the mutating workflow operations and guarantees their
// consistency. It is the sole writer of orders, tracking entries, and
// department queues.
type Orchestrator struct {
	store    *store.Store
	catalog  *catalog.Catalog
	resolver *assignment.Resolver
	notifier notifications.Service
	logger   *slog.Logger

	orderLocks *keyedMutex
	deptLocks  *keyedMutex
}

// New constructs an orchestrator.
func New(st *store.Store, cat *catalog.Catalog, resolver *assignment.Resolver, notifier notifications.Service, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:      st,
		catalog:    cat,
		resolver:   resolver,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "orchestrator"),
		orderLocks: newKeyedMutex(),
		deptLocks:  newKeyedMutex(),
	}
}

// Catalog returns the department pipeline the orchestrator operates on.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// orderByRef resolves an order reference or returns a typed rejection.
func (o *Orchestrator) orderByRef(ctx context.Context, ref string) (*store.Order, error) {
	if ref == "" {
		return nil, services.Wrap(services.ErrValidation, "orchestrator", "lookup order", "order reference is required", nil)
	}
	order, err := o.store.GetOrderByRef(ctx, ref)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "orchestrator", "lookup order", "", err)
	}
	if order == nil {
		return nil, services.Wrap(services.ErrNotFound, "orchestrator", "lookup order", fmt.Sprintf("order %q does not exist", ref), nil)
	}
	return order, nil
}

// department resolves a department id or returns a typed rejection.
func (o *Orchestrator) department(id string) (catalog.Department, error) {
	dept, ok := o.catalog.Get(id)
	if !ok {
		return catalog.Department{}, services.Wrap(services.ErrNotFound, "orchestrator", "lookup department", fmt.Sprintf("department %q does not exist", id), nil)
	}
	return dept, nil
}

// requireInFactory rejects operations on orders outside the factory lifecycle.
func requireInFactory(order *store.Order) error {
	if order.Status != store.OrderInFactory {
		return services.Wrap(services.ErrStateConflict, "orchestrator", "check order status",
			fmt.Sprintf("order %s has status %s, expected %s", order.Ref, order.Status, store.OrderInFactory), nil)
	}
	return nil
}

// notify runs a notification send without awaiting it. Delivery failures are
// logged and never affect the operation outcome.
func (o *Orchestrator) notify(send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			o.logger.Warn("notification delivery failed", logging.Error(err))
		}
	}()
}

// announce pushes the appropriate notification for a resolution outcome.
func (o *Orchestrator) announce(orderRef, department string, result Assignment) {
	switch {
	case result.Assigned && result.WorkerName != "":
		o.notify(func(ctx context.Context) error {
			return o.notifier.NotifyAssignment(ctx, orderRef, department, result.WorkerName)
		})
	case result.Queued:
		o.notify(func(ctx context.Context) error {
			return o.notifier.NotifyQueued(ctx, orderRef, department, result.QueuePosition)
		})
	}
}
