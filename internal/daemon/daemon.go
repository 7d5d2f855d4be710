// Package daemon owns the long-running engine process: it guards
// single-instance execution with a lock file and exposes the workflow
// orchestrator, roster, and board projection to the IPC layer.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"atelier/internal/board"
	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/notifications"
	"atelier/internal/store"
	"atelier/internal/workflow"
)

// Daemon coordinates the engine services and enforces single-instance execution.
type Daemon struct {
	cfg          *config.Config
	logger       *slog.Logger
	store        *store.Store
	orchestrator *workflow.Orchestrator
	projector    *board.Projector
	notifier     notifications.Service
	catalog      *catalog.Catalog

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
	Departments  int
	Health       store.HealthSummary
	HealthErr    string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, cat *catalog.Catalog, orch *workflow.Orchestrator, proj *board.Projector, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || cat == nil || orch == nil || proj == nil {
		return nil, errors.New("daemon requires config, store, catalog, orchestrator, and projector")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		orchestrator: orch,
		projector:    proj,
		notifier:     notifier,
		catalog:      cat,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock. It fails when another instance holds it.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another atelier daemon instance is already running")
	}

	if _, err := d.store.Health(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("database health check: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("atelier daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("atelier daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Orchestrator exposes the workflow engine for IPC handlers.
func (d *Daemon) Orchestrator() *workflow.Orchestrator {
	return d.orchestrator
}

// Projector exposes the read-only board projection for IPC handlers.
func (d *Daemon) Projector() *board.Projector {
	return d.projector
}

// Store exposes the tracking store for roster and order intake handlers.
func (d *Daemon) Store() *store.Store {
	return d.store
}

// Catalog exposes the pipeline departments.
func (d *Daemon) Catalog() *catalog.Catalog {
	return d.catalog
}

// Notifier exposes the notification service for test sends.
func (d *Daemon) Notifier() notifications.Service {
	return d.notifier
}

// Status reports the daemon's runtime state and store health counters.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		Departments:  d.catalog.Len(),
	}
	health, err := d.store.Health(ctx)
	if err != nil {
		status.HealthErr = err.Error()
	}
	status.Health = health
	return status
}
