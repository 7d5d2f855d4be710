package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"atelier/internal/store"
	"atelier/internal/testsupport"
)

func TestOpenAppliesSchemaAndMintsOrderRefs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	order, err := st.CreateOrder(ctx, "gold signet ring", store.PriorityHigh)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("expected order ID to be assigned")
	}
	if !strings.HasPrefix(order.Ref, "ord-") {
		t.Fatalf("expected ord- prefix, got %q", order.Ref)
	}
	if order.Status != store.OrderDraft {
		t.Fatalf("expected new order to be draft, got %q", order.Status)
	}

	fetched, err := st.GetOrderByRef(ctx, order.Ref)
	if err != nil {
		t.Fatalf("GetOrderByRef failed: %v", err)
	}
	if fetched == nil || fetched.Description != "gold signet ring" || fetched.Priority != store.PriorityHigh {
		t.Fatalf("unexpected fetched order: %#v", fetched)
	}
}

func TestCreateOrderRequiresDescription(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.CreateOrder(context.Background(), "   ", store.PriorityNormal); err == nil {
		t.Fatal("expected error for blank description")
	}
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	draft, err := st.CreateOrder(ctx, "draft order", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	active, err := st.CreateOrder(ctx, "active order", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	active.Status = store.OrderInFactory
	active.CurrentDepartment = "design"
	if err := st.UpdateOrder(ctx, active); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}

	drafts, err := st.ListOrders(ctx, store.OrderDraft)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Ref != draft.Ref {
		t.Fatalf("unexpected draft listing: %#v", drafts)
	}

	all, err := st.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}

func TestOpenEntryInvariant(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	order, err := st.CreateOrder(ctx, "brooch", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	first, err := st.CreateEntry(ctx, order.ID, "design")
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if first.Status != store.EntryPendingAssignment {
		t.Fatalf("expected pending entry, got %q", first.Status)
	}

	if _, err := st.CreateEntry(ctx, order.ID, "printing"); err == nil {
		t.Fatal("expected second open entry to be rejected")
	}

	closed, err := st.ForceCompleteOpen(ctx, order.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("ForceCompleteOpen failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed entry, got %d", closed)
	}

	second, err := st.CreateEntry(ctx, order.ID, "printing")
	if err != nil {
		t.Fatalf("CreateEntry after close failed: %v", err)
	}

	open, err := st.OpenEntry(ctx, order.ID)
	if err != nil {
		t.Fatalf("OpenEntry failed: %v", err)
	}
	if open == nil || open.ID != second.ID || open.DepartmentID != "printing" {
		t.Fatalf("unexpected open entry: %#v", open)
	}

	history, err := st.EntriesForOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("EntriesForOrder failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if history[0].DepartmentID != "design" || history[0].Status != store.EntryCompleted {
		t.Fatalf("unexpected first history row: %#v", history[0])
	}
}

func TestQueuePositionsStayDense(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	orders := make([]*store.Order, 3)
	for i, desc := range []string{"first", "second", "third"} {
		order, err := st.CreateOrder(ctx, desc, store.PriorityNormal)
		if err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
		orders[i] = order
		position, already, err := st.Enqueue(ctx, "casting", order.ID)
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if already {
			t.Fatalf("order %d unexpectedly already queued", i)
		}
		if position != i {
			t.Fatalf("expected position %d, got %d", i, position)
		}
	}

	// Removing the middle entry must shift the tail back.
	removed, err := st.RemoveQueued(ctx, "casting", orders[1].ID)
	if err != nil {
		t.Fatalf("RemoveQueued failed: %v", err)
	}
	if !removed {
		t.Fatal("expected middle entry to be removed")
	}

	queue, err := st.QueueFor(ctx, "casting")
	if err != nil {
		t.Fatalf("QueueFor failed: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected 2 queued orders, got %d", len(queue))
	}
	if queue[0].OrderID != orders[0].ID || queue[0].Position != 0 {
		t.Fatalf("unexpected front: %#v", queue[0])
	}
	if queue[1].OrderID != orders[2].ID || queue[1].Position != 1 {
		t.Fatalf("expected third order compacted to position 1, got %#v", queue[1])
	}

	front, err := st.PeekFront(ctx, "casting")
	if err != nil {
		t.Fatalf("PeekFront failed: %v", err)
	}
	if front == nil || front.OrderID != orders[0].ID {
		t.Fatalf("unexpected front entry: %#v", front)
	}

	// Peeking never mutates the queue.
	if length, err := st.QueueLength(ctx, "casting"); err != nil || length != 2 {
		t.Fatalf("expected peek to leave 2 entries, got %d (err=%v)", length, err)
	}

	if removed, err := st.RemoveQueued(ctx, "casting", orders[0].ID); err != nil || !removed {
		t.Fatalf("RemoveQueued front failed: removed=%v err=%v", removed, err)
	}

	position, found, err := st.QueuePosition(ctx, "casting", orders[2].ID)
	if err != nil {
		t.Fatalf("QueuePosition failed: %v", err)
	}
	if !found || position != 0 {
		t.Fatalf("expected remaining order at position 0, found=%v position=%d", found, position)
	}

	length, err := st.QueueLength(ctx, "casting")
	if err != nil {
		t.Fatalf("QueueLength failed: %v", err)
	}
	if length != 1 {
		t.Fatalf("expected queue length 1, got %d", length)
	}
}

func TestEnqueueIsIdempotentPerDepartment(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	order, err := st.CreateOrder(ctx, "pendant", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	first, already, err := st.Enqueue(ctx, "polishing", order.ID)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if already || first != 0 {
		t.Fatalf("unexpected first enqueue: position=%d already=%v", first, already)
	}

	second, already, err := st.Enqueue(ctx, "polishing", order.ID)
	if err != nil {
		t.Fatalf("repeat Enqueue failed: %v", err)
	}
	if !already {
		t.Fatal("expected repeat enqueue to report already queued")
	}
	if second != first {
		t.Fatalf("expected stable position %d, got %d", first, second)
	}

	length, err := st.QueueLength(ctx, "polishing")
	if err != nil {
		t.Fatalf("QueueLength failed: %v", err)
	}
	if length != 1 {
		t.Fatalf("expected single queue row, got %d", length)
	}
}

func TestPeekFrontOnEmptyQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	front, err := st.PeekFront(context.Background(), "design")
	if err != nil {
		t.Fatalf("PeekFront failed: %v", err)
	}
	if front != nil {
		t.Fatalf("expected nil on empty queue, got %#v", front)
	}
}

func TestWorkerRosterAndAvailability(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	alice, err := st.AddWorker(ctx, "Alice", "design")
	if err != nil {
		t.Fatalf("AddWorker failed: %v", err)
	}
	if !strings.HasPrefix(alice.Ref, "wrk-") {
		t.Fatalf("expected wrk- prefix, got %q", alice.Ref)
	}
	bob, err := st.AddWorker(ctx, "Bob", "design")
	if err != nil {
		t.Fatalf("AddWorker failed: %v", err)
	}
	if _, err := st.AddWorker(ctx, "Carol", "casting"); err != nil {
		t.Fatalf("AddWorker failed: %v", err)
	}

	available, err := st.ListAvailableWorkers(ctx, "design")
	if err != nil {
		t.Fatalf("ListAvailableWorkers failed: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected 2 design workers, got %d", len(available))
	}

	// Give Alice one in-progress entry so her workload is visible.
	order, err := st.CreateOrder(ctx, "earrings", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	entry, err := st.CreateEntry(ctx, order.ID, "design")
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	now := time.Now().UTC()
	entry.Status = store.EntryInProgress
	entry.WorkerID = &alice.ID
	entry.StartedAt = &now
	if err := st.UpdateEntry(ctx, entry); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	workload, err := st.WorkloadFor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("WorkloadFor failed: %v", err)
	}
	if workload != 1 {
		t.Fatalf("expected workload 1, got %d", workload)
	}

	if err := st.SetWorkerActive(ctx, bob.ID, false); err != nil {
		t.Fatalf("SetWorkerActive failed: %v", err)
	}
	available, err = st.ListAvailableWorkers(ctx, "design")
	if err != nil {
		t.Fatalf("ListAvailableWorkers failed: %v", err)
	}
	if len(available) != 1 || available[0].ID != alice.ID {
		t.Fatalf("expected only Alice available, got %#v", available)
	}
	if available[0].Workload != 1 {
		t.Fatalf("expected Alice's workload 1, got %d", available[0].Workload)
	}
}

func TestHealthCountsEntriesAndQueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	order, err := st.CreateOrder(ctx, "bracelet", store.PriorityNormal)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := st.CreateEntry(ctx, order.ID, "design"); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, _, err := st.Enqueue(ctx, "design", order.ID); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	health, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Orders != 1 || health.OpenEntries != 1 || health.QueuedEntries != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}
