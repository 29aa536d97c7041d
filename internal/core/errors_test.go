package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Matching(t *testing.T) {
	err := ErrStep(CodeStepTimedOut, "evidence gathering timed out").
		WithCause(fmt.Errorf("context deadline exceeded"))

	if !errors.Is(err, ErrStep(CodeStepTimedOut, "different message")) {
		t.Fatalf("expected category+code match")
	}
	if errors.Is(err, ErrStep(CodeStepPanicked, "x")) {
		t.Fatalf("did not expect match across codes")
	}
	if !IsRetryable(err) {
		t.Fatalf("step errors should be retryable")
	}
	if IsInvariant(err) {
		t.Fatalf("step errors are not invariant violations")
	}
}

func TestDomainError_InvariantIsFatal(t *testing.T) {
	err := ErrInvariant(CodeIterationCap, "revision pass count exceeded cap")

	if !IsInvariant(err) {
		t.Fatalf("expected invariant category")
	}
	if IsRetryable(err) {
		t.Fatalf("invariant violations must not be retryable")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := ErrScoring("scorer crashed").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap chain to reach cause")
	}
	if GetCategory(err) != ErrCatScoring {
		t.Fatalf("expected scoring category, got %s", GetCategory(err))
	}
}

func TestGetCategory_PlainError(t *testing.T) {
	if GetCategory(fmt.Errorf("plain")) != ErrCatInternal {
		t.Fatalf("plain errors should map to internal")
	}
}

func TestDomainError_Details(t *testing.T) {
	err := ErrValidation(CodeEmptyClaim, "claim text cannot be empty").
		WithDetail("field", "claim_text")

	if err.Details["field"] != "claim_text" {
		t.Fatalf("expected detail to be recorded")
	}
}
