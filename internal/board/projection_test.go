package board_test

import (
	"context"
	"testing"

	"atelier/internal/board"
	"atelier/internal/services"
	"atelier/internal/store"
	"atelier/internal/testsupport"
)

func newProjector(t *testing.T) (*board.Projector, *testsupport.Engine) {
	t.Helper()
	engine := testsupport.NewEngine(t)
	return board.NewProjector(engine.Store, engine.Catalog), engine
}

func TestBoardShowsOneColumnPerDepartment(t *testing.T) {
	projector, engine := newProjector(t)

	view, err := projector.Board(context.Background())
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(view.Columns) != engine.Catalog.Len() {
		t.Fatalf("expected %d columns, got %d", engine.Catalog.Len(), len(view.Columns))
	}
	for i, column := range view.Columns {
		if column.Position != i {
			t.Fatalf("column %q out of order: position %d at index %d", column.DepartmentID, column.Position, i)
		}
		if len(column.Cards) != 0 || column.QueueLength != 0 {
			t.Fatalf("expected empty column, got %#v", column)
		}
	}
}

func TestBoardCardsCarryWorkerAndQueueState(t *testing.T) {
	projector, engine := newProjector(t)
	ctx := context.Background()

	alice, err := engine.Store.AddWorker(ctx, "Alice", "design")
	if err != nil {
		t.Fatalf("AddWorker failed: %v", err)
	}

	assigned, err := engine.Store.CreateOrder(ctx, "assigned ring", store.PriorityUrgent)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	waiting, err := engine.Store.CreateOrder(ctx, "waiting ring", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	results := engine.Orchestrator.SendToFactory(ctx, []string{assigned.Ref, waiting.Ref})
	for _, result := range results {
		if result.Err != nil {
			t.Fatalf("dispatch failed: %v", result.Err)
		}
	}

	view, err := projector.Board(ctx)
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}

	var design *board.Column
	for i := range view.Columns {
		if view.Columns[i].DepartmentID == "design" {
			design = &view.Columns[i]
			break
		}
	}
	if design == nil {
		t.Fatal("design column missing")
	}
	if len(design.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(design.Cards))
	}
	if design.QueueLength != 1 {
		t.Fatalf("expected 1 queued order, got %d", design.QueueLength)
	}
	if design.UrgentCount != 1 {
		t.Fatalf("expected 1 urgent card, got %d", design.UrgentCount)
	}

	cardsByRef := make(map[string]board.Card, len(design.Cards))
	for _, card := range design.Cards {
		cardsByRef[card.OrderRef] = card
	}

	assignedCard := cardsByRef[assigned.Ref]
	if assignedCard.Status != store.EntryInProgress {
		t.Fatalf("expected in-progress card, got %q", assignedCard.Status)
	}
	if assignedCard.WorkerRef != alice.Ref || assignedCard.WorkerName != "Alice" {
		t.Fatalf("unexpected card worker: %#v", assignedCard)
	}
	if assignedCard.QueuePosition != nil {
		t.Fatalf("assigned card must not carry a queue position, got %v", *assignedCard.QueuePosition)
	}

	waitingCard := cardsByRef[waiting.Ref]
	if waitingCard.Status != store.EntryPendingAssignment {
		t.Fatalf("expected pending card, got %q", waitingCard.Status)
	}
	if waitingCard.QueuePosition == nil || *waitingCard.QueuePosition != 0 {
		t.Fatalf("expected queue position 0, got %v", waitingCard.QueuePosition)
	}
}

func TestBoardOmitsCompletedOrders(t *testing.T) {
	projector, engine := newProjector(t)
	ctx := context.Background()

	if _, err := engine.Store.AddWorker(ctx, "Quinn", "quality_control"); err != nil {
		t.Fatalf("AddWorker failed: %v", err)
	}
	order, err := engine.Store.CreateOrder(ctx, "finished piece", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	results := engine.Orchestrator.SendToFactory(ctx, []string{order.Ref})
	if results[0].Err != nil {
		t.Fatalf("dispatch failed: %v", results[0].Err)
	}
	if _, err := engine.Orchestrator.MoveToDepartment(ctx, order.Ref, "quality_control"); err != nil {
		t.Fatalf("MoveToDepartment failed: %v", err)
	}
	if _, err := engine.Orchestrator.CompleteDepartment(ctx, order.Ref, "quality_control", nil); err != nil {
		t.Fatalf("CompleteDepartment failed: %v", err)
	}

	view, err := projector.Board(ctx)
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	for _, column := range view.Columns {
		if len(column.Cards) != 0 {
			t.Fatalf("completed order must not appear on the board: %#v", column)
		}
	}
}

func TestTimelineRecordsEveryVisit(t *testing.T) {
	projector, engine := newProjector(t)
	ctx := context.Background()

	alice, err := engine.Store.AddWorker(ctx, "Alice", "design")
	if err != nil {
		t.Fatalf("AddWorker failed: %v", err)
	}
	order, err := engine.Store.CreateOrder(ctx, "heirloom restoration", store.PriorityHigh)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	results := engine.Orchestrator.SendToFactory(ctx, []string{order.Ref})
	if results[0].Err != nil {
		t.Fatalf("dispatch failed: %v", results[0].Err)
	}
	if _, err := engine.Orchestrator.CompleteDepartment(ctx, order.Ref, "design", nil); err != nil {
		t.Fatalf("CompleteDepartment failed: %v", err)
	}
	// Manual move back into design creates a second visit, not an overwrite.
	if _, err := engine.Orchestrator.MoveToDepartment(ctx, order.Ref, "design"); err != nil {
		t.Fatalf("MoveToDepartment failed: %v", err)
	}

	timeline, err := projector.Timeline(ctx, order.Ref)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if timeline.OrderRef != order.Ref || timeline.Status != store.OrderInFactory {
		t.Fatalf("unexpected timeline header: %#v", timeline)
	}
	if len(timeline.Steps) != 3 {
		t.Fatalf("expected 3 steps (design, printing, design), got %d", len(timeline.Steps))
	}

	first := timeline.Steps[0]
	if first.DepartmentID != "design" || first.Status != store.EntryCompleted {
		t.Fatalf("unexpected first step: %#v", first)
	}
	if first.WorkerRef != alice.Ref {
		t.Fatalf("expected Alice on first step, got %q", first.WorkerRef)
	}
	if first.ExitedAt == nil || first.CompletionPercent != 100 {
		t.Fatalf("expected completed step metrics, got %#v", first)
	}

	second := timeline.Steps[1]
	if second.DepartmentID != "printing" || second.Status != store.EntryCompleted {
		t.Fatalf("unexpected second step: %#v", second)
	}

	third := timeline.Steps[2]
	if third.DepartmentID != "design" || third.Status == store.EntryCompleted {
		t.Fatalf("unexpected third step: %#v", third)
	}
}

func TestTimelineRejectsUnknownOrder(t *testing.T) {
	projector, _ := newProjector(t)

	_, err := projector.Timeline(context.Background(), "ord-missing")
	if err == nil || services.Kind(err) != "not_found" {
		t.Fatalf("expected not_found, got %v", err)
	}
}
