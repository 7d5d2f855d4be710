package main

import (
	"fmt"

	"log/slog"

	"atelier/internal/assignment"
	"atelier/internal/board"
	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/daemon"
	"atelier/internal/notifications"
	"atelier/internal/store"
	"atelier/internal/workflow"
)

// bootstrap wires the engine: store, pipeline catalog, resolver,
// orchestrator, and board projection behind a single daemon handle.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open tracking store: %w", err)
	}

	cat, err := catalog.Load(cfg.Paths.PipelineFile)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	notifier := notifications.NewService(cfg)
	resolver := assignment.NewResolver(st, st, assignment.LeastLoaded{}, logger)
	orchestrator := workflow.New(st, cat, resolver, notifier, logger)
	projector := board.NewProjector(st, cat)

	d, err := daemon.New(cfg, st, cat, orchestrator, projector, notifier, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	return d, nil
}
