package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input
	ErrCatStep       ErrorCategory = "step"       // One analysis call failed
	ErrCatScoring    ErrorCategory = "scoring"    // Complexity scorer failed
	ErrCatTimeout    ErrorCategory = "timeout"    // Operation timed out
	ErrCatConsensus  ErrorCategory = "consensus"  // Consensus resolution failed
	ErrCatState      ErrorCategory = "state"      // State corruption/conflict
	ErrCatNotFound   ErrorCategory = "not_found"  // Resource not found
	ErrCatInvariant  ErrorCategory = "invariant"  // Programming defect - fatal
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
// Step, scoring, and timeout errors are absorbed into low-confidence
// signal by the orchestrator; only invariant errors surface to the
// caller as run failure.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrStep creates a step failure error. Non-fatal: the executor converts
// it into an error output and continues the path.
func ErrStep(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatStep,
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// ErrScoring creates a complexity-scoring error. Non-fatal: the router
// defaults to the standard path.
func ErrScoring(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatScoring,
		Code:      "SCORING_FAILED",
		Message:   message,
		Retryable: true,
	}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatTimeout,
		Code:      "TIMEOUT",
		Message:   message,
		Retryable: true,
	}
}

// ErrConsensus creates a consensus error.
func ErrConsensus(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatConsensus,
		Code:      "CONSENSUS_FAILED",
		Message:   message,
		Retryable: false,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category:  ErrCatNotFound,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("%s not found: %s", resource, id),
		Retryable: false,
	}
}

// ErrInvariant creates an invariant violation. These indicate programming
// defects, never data or availability problems, and abort the run.
func ErrInvariant(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatInvariant,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// IsInvariant reports whether the error is a fatal invariant violation.
func IsInvariant(err error) bool {
	return IsCategory(err, ErrCatInvariant)
}

// Predefined error codes
const (
	CodeRunNotFound      = "RUN_NOT_FOUND"
	CodeStepNotFound     = "STEP_NOT_FOUND"
	CodeStepPanicked     = "STEP_PANICKED"
	CodeStepTimedOut     = "STEP_TIMED_OUT"
	CodeIterationCap     = "ITERATION_CAP_EXCEEDED"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeEmptyClaim       = "CLAIM_REQUIRED"
	CodeUnknownPath      = "UNKNOWN_PATH"
	CodeStateCorrupted   = "STATE_CORRUPTED"
	CodeDuplicateStep    = "DUPLICATE_STEP"
	CodeVerdictOverwrite = "VERDICT_ALREADY_SET"
)

// MaxClaimLength is the maximum allowed claim length.
const MaxClaimLength = 20000
