package testsupport

import (
	"testing"

	"atelier/internal/assignment"
	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/notifications"
	"atelier/internal/store"
	"atelier/internal/workflow"
)

// MustCatalog loads the built-in pipeline definition.
func MustCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return cat
}

// Engine bundles a wired orchestrator with the store and catalog behind it.
type Engine struct {
	Store        *store.Store
	Catalog      *catalog.Catalog
	Resolver     *assignment.Resolver
	Orchestrator *workflow.Orchestrator
}

// NewEngine wires a complete workflow engine over a fresh temp-dir store with
// notifications disabled.
func NewEngine(t testing.TB, opts ...ConfigOption) *Engine {
	t.Helper()

	cfg := NewConfig(t, opts...)
	return NewEngineWithConfig(t, cfg)
}

// NewEngineWithConfig wires a workflow engine over the provided config.
func NewEngineWithConfig(t testing.TB, cfg *config.Config) *Engine {
	t.Helper()

	st := MustOpenStore(t, cfg)
	cat := MustCatalog(t)
	logger := logging.NewNop()
	resolver := assignment.NewResolver(st, st, assignment.LeastLoaded{}, logger)
	orch := workflow.New(st, cat, resolver, notifications.NewService(cfg), logger)
	return &Engine{
		Store:        st,
		Catalog:      cat,
		Resolver:     resolver,
		Orchestrator: orch,
	}
}
