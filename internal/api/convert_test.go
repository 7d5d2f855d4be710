package api_test

import (
	"testing"

	"atelier/internal/api"
	"atelier/internal/services"
	"atelier/internal/workflow"
)

func TestFromReassignResultKeepsQueueFieldsZero(t *testing.T) {
	outcome := api.FromReassignResult(workflow.ReassignResult{
		Assigned:   true,
		WorkerRef:  "wrk-1",
		WorkerName: "Alice",
		Message:    "worker already assigned",
	})
	if !outcome.Assigned || outcome.WorkerID != "wrk-1" || outcome.WorkerName != "Alice" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	// Reassignment only applies to in-progress entries, so the payload's
	// queue fields must always read false/0.
	if outcome.Queued || outcome.QueuePosition != 0 {
		t.Fatalf("queue fields must stay zero: %+v", outcome)
	}
	if outcome.Message != "worker already assigned" {
		t.Fatalf("message dropped: %+v", outcome)
	}
}

func TestFailureFromErrorClassifies(t *testing.T) {
	if got := api.FailureFromError(nil); got != nil {
		t.Fatalf("nil error should produce nil failure, got %+v", got)
	}
	failure := api.FailureFromError(services.Wrap(services.ErrStateConflict, "orchestrator", "complete", "entry not in progress", nil))
	if failure == nil || failure.Kind != "state_conflict" {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if failure.Message == "" {
		t.Fatal("failure message should carry the rejection reason")
	}
}
