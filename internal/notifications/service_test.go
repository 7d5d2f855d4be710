package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"atelier/internal/config"
	"atelier/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyOrderSent(context.Background(), "ord-1", "Design"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop test notification to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newNtfyService(t *testing.T, serverURL string) notifications.Service {
	t.Helper()
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = serverURL
	return notifications.NewService(&cfg)
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	server, requests := newCaptureServer(t)
	svc := newNtfyService(t, server.URL)
	ctx := context.Background()

	if err := svc.NotifyAssignment(ctx, "ord-1", "Design", "Alice"); err != nil {
		t.Fatalf("NotifyAssignment failed: %v", err)
	}
	if err := svc.NotifyQueued(ctx, "ord-2", "Casting", 1); err != nil {
		t.Fatalf("NotifyQueued failed: %v", err)
	}
	if err := svc.NotifyOrderCompleted(ctx, "ord-3"); err != nil {
		t.Fatalf("NotifyOrderCompleted failed: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("scan failed"), "board"); err != nil {
		t.Fatalf("NotifyError failed: %v", err)
	}

	if len(*requests) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(*requests))
	}

	assignment := (*requests)[0]
	if assignment.title != "Atelier - Assigned" {
		t.Fatalf("unexpected title: %q", assignment.title)
	}
	if assignment.body != "Order ord-1 assigned to Alice in Design" {
		t.Fatalf("unexpected body: %q", assignment.body)
	}

	queued := (*requests)[1]
	if queued.body != "Order ord-2 waiting in Casting at position 1" {
		t.Fatalf("unexpected body: %q", queued.body)
	}

	completed := (*requests)[2]
	if completed.priority != "high" {
		t.Fatalf("expected high priority for completion, got %q", completed.priority)
	}

	failure := (*requests)[3]
	if failure.body != "Error in board: scan failed" {
		t.Fatalf("unexpected error body: %q", failure.body)
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server, requests := newCaptureServer(t)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Assignments = false
	cfg.Notifications.Queueing = false
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyAssignment(ctx, "ord-1", "Design", "Alice"); err != nil {
		t.Fatalf("NotifyAssignment failed: %v", err)
	}
	if err := svc.NotifyQueued(ctx, "ord-1", "Design", 0); err != nil {
		t.Fatalf("NotifyQueued failed: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("disabled categories must not send, got %d requests", len(*requests))
	}

	if err := svc.NotifyDepartmentCompleted(ctx, "ord-1", "Design"); err != nil {
		t.Fatalf("NotifyDepartmentCompleted failed: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected completion notification, got %d requests", len(*requests))
	}
}

func TestNtfyServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	svc := newNtfyService(t, server.URL)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
