package assignment

import (
	"context"
	"log/slog"
	"time"

	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
	"atelier/internal/workers"
)

// Outcome reports how a resolution ended: a worker was bound, the order was
// queued, or the entry was already in progress (idempotent no-op).
type Outcome struct {
	Assigned          bool
	Worker            *store.Worker
	Queued            bool
	QueuePosition     int
	AlreadyInProgress bool
}

// Resolver binds workers to tracking entries or queues the order when no
// worker is free.
type Resolver struct {
	store     *store.Store
	directory workers.Directory
	policy    Policy
	logger    *slog.Logger
}

// NewResolver constructs a resolver with the given selection policy.
func NewResolver(st *store.Store, directory workers.Directory, policy Policy, logger *slog.Logger) *Resolver {
	if policy == nil {
		policy = LeastLoaded{}
	}
	return &Resolver{
		store:     st,
		directory: directory,
		policy:    policy,
		logger:    logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve assigns a worker to the entry or enqueues the order in the entry's
// department. Already-in-progress entries are left untouched.
func (r *Resolver) Resolve(ctx context.Context, entry *store.Entry) (Outcome, error) {
	if entry.Status == store.EntryInProgress {
		return Outcome{AlreadyInProgress: true, Assigned: true}, nil
	}

	candidates, err := r.directory.ListAvailableWorkers(ctx, entry.DepartmentID)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrInternal, "resolver", "list workers", "", err)
	}

	if len(candidates) == 0 {
		position, already, err := r.store.Enqueue(ctx, entry.DepartmentID, entry.OrderID)
		if err != nil {
			return Outcome{}, services.Wrap(services.ErrInternal, "resolver", "enqueue", "", err)
		}
		r.logger.Debug("order queued",
			logging.Int64(logging.FieldOrder, entry.OrderID),
			logging.String(logging.FieldDepartment, entry.DepartmentID),
			logging.Int("position", position),
			logging.Bool("already_queued", already))
		return Outcome{Queued: true, QueuePosition: position}, nil
	}

	worker := r.policy.Select(candidates)
	if err := r.Bind(ctx, entry, worker); err != nil {
		return Outcome{}, err
	}
	return Outcome{Assigned: true, Worker: worker}, nil
}

// Bind assigns a specific worker to the entry, moving it to IN_PROGRESS and
// clearing any stale queue entry. Used by Resolve and by self-assignment,
// where the worker is forced rather than chosen by policy.
func (r *Resolver) Bind(ctx context.Context, entry *store.Entry, worker *store.Worker) error {
	now := time.Now().UTC()
	entry.Status = store.EntryInProgress
	entry.WorkerID = &worker.ID
	entry.StartedAt = &now
	if err := r.store.UpdateEntry(ctx, entry); err != nil {
		return services.Wrap(services.ErrInternal, "resolver", "bind worker", "", err)
	}
	if _, err := r.store.RemoveQueued(ctx, entry.DepartmentID, entry.OrderID); err != nil {
		return services.Wrap(services.ErrInternal, "resolver", "clear queue entry", "", err)
	}
	r.logger.Debug("worker assigned",
		logging.Int64(logging.FieldOrder, entry.OrderID),
		logging.String(logging.FieldDepartment, entry.DepartmentID),
		logging.String(logging.FieldWorker, worker.Ref))
	return nil
}
