package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestReporterError_Error(t *testing.T) {
	err := &ReporterError{
		Category: ErrCategoryEvent,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestReporterError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ReporterError{
		Category: ErrCategoryIO,
		Code:     "test_error",
		Message:  "test message",
		Cause:    cause,
	}

	got := err.Error()
	if !strings.Contains(got, "test message") {
		t.Errorf("Error() = %q, should contain 'test message'", got)
	}
	if !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, should contain 'underlying error'", got)
	}
}

func TestReporterError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ReporterError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestReporterError_IsMatchesDerivedCopies(t *testing.T) {
	derived := ErrOutputTargetMissing.
		WithMessage("output target /tmp/nope does not exist").
		WithDetails(map[string]interface{}{"path": "/tmp/nope"})
	wrapped := fmt.Errorf("init reporter: %w", derived)

	if !errors.Is(wrapped, ErrOutputTargetMissing) {
		t.Error("errors.Is() = false for derived copy, want true")
	}
	if errors.Is(wrapped, ErrOutputTargetNotDir) {
		t.Error("errors.Is() = true for a different code, want false")
	}
	if (&ReporterError{}).Is(&ReporterError{}) {
		t.Error("empty codes should not match")
	}
}

func TestReporterError_WithCause(t *testing.T) {
	original := ErrWriteFailed
	cause := errors.New("disk full")

	newErr := original.WithCause(cause)

	if newErr.Cause != cause {
		t.Error("WithCause() did not set cause")
	}
	if newErr.Code != original.Code {
		t.Error("WithCause() changed code")
	}
	if original.Cause != nil {
		t.Error("WithCause() modified original error")
	}
}

func TestReporterError_WithMessage(t *testing.T) {
	original := ErrMalformedEvent
	newErr := original.WithMessage("line 3: malformed event")

	if newErr.Message != "line 3: malformed event" {
		t.Errorf("Message = %q, want 'line 3: malformed event'", newErr.Message)
	}
	if newErr.Code != original.Code {
		t.Error("WithMessage() changed code")
	}
	if original.Message == "line 3: malformed event" {
		t.Error("WithMessage() modified original error")
	}
}

func TestReporterError_WithDetails(t *testing.T) {
	original := &ReporterError{
		Code:    "test",
		Message: "test",
		Details: map[string]interface{}{"existing": "value"},
	}

	newErr := original.WithDetails(map[string]interface{}{
		"line":  7,
		"event": "suite end",
	})

	if newErr.Details["event"] != "suite end" {
		t.Error("WithDetails() did not add new details")
	}
	if newErr.Details["existing"] != "value" {
		t.Error("WithDetails() did not preserve existing details")
	}
	if _, ok := original.Details["event"]; ok {
		t.Error("WithDetails() modified original error")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err      *ReporterError
		category ErrorCategory
		code     string
	}{
		{ErrOutputTargetMissing, ErrCategoryConfig, "output_target_missing"},
		{ErrOutputTargetNotDir, ErrCategoryConfig, "output_target_not_dir"},
		{ErrInvalidConfig, ErrCategoryConfig, "invalid_config"},
		{ErrUnbalancedSuiteEnd, ErrCategoryEvent, "unbalanced_suite_end"},
		{ErrUnknownEvent, ErrCategoryEvent, "unknown_event"},
		{ErrMalformedEvent, ErrCategoryEvent, "malformed_event"},
		{ErrUnclosedSuites, ErrCategoryEvent, "unclosed_suites"},
		{ErrUnknownFormat, ErrCategoryRender, "unknown_format"},
		{ErrWriteFailed, ErrCategoryIO, "write_failed"},
	}

	for _, tt := range tests {
		if tt.err.Category != tt.category {
			t.Errorf("%s: Category = %v, want %v", tt.code, tt.err.Category, tt.category)
		}
		if tt.err.Code != tt.code {
			t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
		}
		if tt.err.Message == "" {
			t.Errorf("%s: Message is empty", tt.code)
		}
	}
}
