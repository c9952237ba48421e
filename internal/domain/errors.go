package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by submission and scoring operations.
// All are recoverable at the call boundary and surfaced as typed
// results, never silently swallowed.
var (
	// ErrInvalidInput indicates a rubric selection outside the allowed
	// option set, a mission count exceeding its quantity, or a reference
	// to an unconfigured criterion, mission, or penalty.
	ErrInvalidInput = errors.New("invalid evaluation input")

	// ErrTimeExceeded indicates the judge's elapsed time exceeded the
	// area's limit under the block action. No score is recorded.
	ErrTimeExceeded = errors.New("evaluation time limit exceeded")

	// ErrReevaluationNotAllowed indicates a current evaluation already
	// exists for the key and the tournament forbids resubmission.
	ErrReevaluationNotAllowed = errors.New("reevaluation not allowed")

	// ErrDuplicateSubmission indicates concurrent writers raced for the
	// same key where the store enforces single-writer semantics.
	ErrDuplicateSubmission = errors.New("duplicate concurrent submission")

	// ErrJudgeNotAssigned indicates the submitting judge is not assigned
	// to the area per the injected authorization check.
	ErrJudgeNotAssigned = errors.New("judge not assigned to area")

	// ErrUnknownArea indicates a submission referenced an area id absent
	// from the configuration snapshot.
	ErrUnknownArea = errors.New("unknown area")

	// ErrNoCurrentEvaluation indicates a retraction targeted a key with
	// nothing current to retract.
	ErrNoCurrentEvaluation = errors.New("no current evaluation")

	// ErrInvalidConfiguration indicates a tournament or area
	// configuration failed validation.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// SubmissionError wraps a submission failure with the key and the
// specific reason, so the submitting judge's client can decide whether
// to resubmit, request an override, or abandon.
type SubmissionError struct {
	// Key is the (team, area, judge) triple of the failed submission.
	Key EvaluationKey

	// Reason is a short human-readable description of the rejection.
	Reason string

	// Err is the underlying typed error.
	Err error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission rejected (%s): %s", e.Key, e.Reason)
}

// Unwrap returns the underlying error, supporting errors.Is matching
// against the domain sentinels.
func (e *SubmissionError) Unwrap() error { return e.Err }

// NewSubmissionError creates a SubmissionError for the given key.
func NewSubmissionError(key EvaluationKey, reason string, err error) *SubmissionError {
	return &SubmissionError{Key: key, Reason: reason, Err: err}
}

// ValidationError accumulates configuration validation failures for one
// entity so callers see every problem at once.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap ties accumulated configuration failures to the
// ErrInvalidConfiguration sentinel.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// Addf adds a formatted error message.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}
