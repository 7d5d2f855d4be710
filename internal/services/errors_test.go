package services_test

import (
	"errors"
	"fmt"
	"testing"

	"atelier/internal/services"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("row not found")
	err := services.Wrap(services.ErrNotFound, "store", "get order", "ord-123", cause)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
	want := "not found: store: get order: ord-123: row not found"
	if err.Error() != want {
		t.Fatalf("unexpected message %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToInternal(t *testing.T) {
	err := services.Wrap(nil, "store", "", "", nil)
	if !errors.Is(err, services.ErrInternal) {
		t.Fatalf("nil marker should default to internal: %v", err)
	}
}

func TestKindClassification(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrValidation, "orchestrator", "move", "same department", nil), "validation"},
		{services.Wrap(services.ErrNotFound, "store", "get worker", "", nil), "not_found"},
		{services.Wrap(services.ErrStateConflict, "orchestrator", "complete", "entry not in progress", nil), "state_conflict"},
		{fmt.Errorf("disk full"), "internal"},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsRejection(t *testing.T) {
	if !services.IsRejection(services.Wrap(services.ErrStateConflict, "", "", "already completed", nil)) {
		t.Fatal("state conflict should be a rejection")
	}
	if services.IsRejection(services.Wrap(services.ErrInternal, "store", "exec", "", errors.New("locked"))) {
		t.Fatal("internal errors are faults, not rejections")
	}
	if services.IsRejection(nil) {
		t.Fatal("nil is not a rejection")
	}
}
