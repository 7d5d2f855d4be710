// Package services defines the error taxonomy shared by the workflow engine.
//
// Orchestrator operations reject bad input with ErrValidation, missing
// records with ErrNotFound, and transitions attempted from the wrong
// tracking-entry status with ErrStateConflict. Wrap tags errors with
// component and operation context so IPC callers receive usable reasons.
package services
