package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"atelier/internal/board"
	"atelier/internal/daemon"
	"atelier/internal/ipc"
	"atelier/internal/logging"
	"atelier/internal/notifications"
	"atelier/internal/testsupport"
)

func newTestServer(t *testing.T) *ipc.Client {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	engine := testsupport.NewEngineWithConfig(t, cfg)
	logger := logging.NewNop()
	projector := board.NewProjector(engine.Store, engine.Catalog)
	notifier := notifications.NewService(cfg)

	d, err := daemon.New(cfg, engine.Store, engine.Catalog, engine.Orchestrator, projector, notifier, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	socket := filepath.Join(filepath.Dir(cfg.Paths.SocketPath), "ipc-test.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger, cancel)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestFullWorkflowOverIPC(t *testing.T) {
	client := newTestServer(t)

	ping, err := client.Ping()
	if err != nil {
		t.Fatalf("Ping RPC failed: %v", err)
	}
	if !ping.Alive {
		t.Fatal("expected Alive=true")
	}

	workerResp, err := client.WorkerAdd("Alice", "design")
	if err != nil {
		t.Fatalf("WorkerAdd RPC failed: %v", err)
	}
	if workerResp.Error != nil {
		t.Fatalf("WorkerAdd rejected: %+v", workerResp.Error)
	}

	orderResp, err := client.OrderCreate("platinum band", "urgent")
	if err != nil {
		t.Fatalf("OrderCreate RPC failed: %v", err)
	}
	if orderResp.Error != nil {
		t.Fatalf("OrderCreate rejected: %+v", orderResp.Error)
	}
	orderID := orderResp.Order.OrderID

	sendResp, err := client.Send([]string{orderID})
	if err != nil {
		t.Fatalf("Send RPC failed: %v", err)
	}
	if len(sendResp.Results) != 1 || sendResp.Results[0].Error != nil {
		t.Fatalf("unexpected send results: %+v", sendResp.Results)
	}
	if sendResp.Results[0].Assignment == nil || !sendResp.Results[0].Assignment.Assigned {
		t.Fatalf("expected worker bound, got %+v", sendResp.Results[0].Assignment)
	}

	boardResp, err := client.Board()
	if err != nil {
		t.Fatalf("Board RPC failed: %v", err)
	}
	if boardResp.Error != nil {
		t.Fatalf("Board rejected: %+v", boardResp.Error)
	}
	var found bool
	for _, column := range boardResp.Board.Columns {
		for _, card := range column.Cards {
			if card.OrderID == orderID {
				found = true
				if card.WorkerName != "Alice" {
					t.Fatalf("expected Alice on card, got %q", card.WorkerName)
				}
			}
		}
	}
	if !found {
		t.Fatal("dispatched order missing from board")
	}

	completeResp, err := client.Complete(orderID, "design", nil)
	if err != nil {
		t.Fatalf("Complete RPC failed: %v", err)
	}
	if completeResp.Error != nil {
		t.Fatalf("Complete rejected: %+v", completeResp.Error)
	}
	if completeResp.Result.NextDepartment != "printing" {
		t.Fatalf("expected cascade into printing, got %q", completeResp.Result.NextDepartment)
	}

	timelineResp, err := client.Timeline(orderID)
	if err != nil {
		t.Fatalf("Timeline RPC failed: %v", err)
	}
	if timelineResp.Error != nil {
		t.Fatalf("Timeline rejected: %+v", timelineResp.Error)
	}
	if len(timelineResp.Timeline.Steps) != 2 {
		t.Fatalf("expected 2 timeline steps, got %d", len(timelineResp.Timeline.Steps))
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.Health.Orders != 1 || status.Health.InFactory != 1 {
		t.Fatalf("unexpected health: %+v", status.Health)
	}
}

func TestIPCRejectionsCarryTypedKinds(t *testing.T) {
	client := newTestServer(t)

	orderResp, err := client.OrderCreate("mystery item", "extreme")
	if err != nil {
		t.Fatalf("OrderCreate RPC failed: %v", err)
	}
	if orderResp.Error == nil || orderResp.Error.Kind != "validation" {
		t.Fatalf("expected validation failure, got %+v", orderResp.Error)
	}

	moveResp, err := client.Move("ord-missing", "design")
	if err != nil {
		t.Fatalf("Move RPC failed: %v", err)
	}
	if moveResp.Error == nil || moveResp.Error.Kind != "not_found" {
		t.Fatalf("expected not_found failure, got %+v", moveResp.Error)
	}

	queueResp, err := client.Queue("engraving")
	if err != nil {
		t.Fatalf("Queue RPC failed: %v", err)
	}
	if queueResp.Error == nil || queueResp.Error.Kind != "not_found" {
		t.Fatalf("expected not_found for unknown department, got %+v", queueResp.Error)
	}
}

func TestWorkerSetActiveUnknownRefIsRejected(t *testing.T) {
	client := newTestServer(t)

	resp, err := client.WorkerSetActive("wrk-does-not-exist", false)
	if err != nil {
		t.Fatalf("WorkerSetActive RPC failed: %v", err)
	}
	if resp.Updated {
		t.Fatal("unknown worker must not report an update")
	}
	if resp.Error == nil || resp.Error.Kind != "not_found" {
		t.Fatalf("expected not_found failure, got %+v", resp.Error)
	}

	// The same connection must stay serviceable afterwards.
	ping, err := client.Ping()
	if err != nil {
		t.Fatalf("Ping after rejection failed: %v", err)
	}
	if !ping.Alive {
		t.Fatal("daemon should still be alive")
	}
}
