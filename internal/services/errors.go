package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks rejections caused by unusable caller input:
	// unknown ids, empty arguments, moves targeting the current department.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for orders, departments, or workers that
	// do not exist.
	ErrNotFound = errors.New("not found")
	// ErrStateConflict marks operations that require a tracking-entry or
	// order status that does not currently hold.
	ErrStateConflict = errors.New("state conflict")
	// ErrInternal marks unexpected persistence or invariant failures.
	ErrInternal = errors.New("internal error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind classifies an error into a short machine-readable code for transport.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStateConflict):
		return "state_conflict"
	default:
		return "internal"
	}
}

// IsRejection reports whether an error represents a caller-facing rejection
// rather than an engine fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStateConflict)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
