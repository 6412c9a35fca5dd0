package core

import (
	"fmt"
)

// ReporterError represents a structured error with category and details
type ReporterError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: output_target_missing, malformed_event, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ReporterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ReporterError) Unwrap() error {
	return e.Cause
}

// Is matches any ReporterError with the same code, so derived copies
// still satisfy errors.Is against the predefined values.
func (e *ReporterError) Is(target error) bool {
	t, ok := target.(*ReporterError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ReporterError) WithCause(cause error) *ReporterError {
	return &ReporterError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ReporterError) WithMessage(msg string) *ReporterError {
	return &ReporterError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *ReporterError) WithDetails(details map[string]interface{}) *ReporterError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ReporterError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Config errors
	ErrOutputTargetMissing = &ReporterError{
		Category: ErrCategoryConfig,
		Code:     "output_target_missing",
		Message:  "output target does not exist",
	}
	ErrOutputTargetNotDir = &ReporterError{
		Category: ErrCategoryConfig,
		Code:     "output_target_not_dir",
		Message:  "output target is not a directory",
	}
	ErrInvalidConfig = &ReporterError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}

	// Event errors
	ErrUnbalancedSuiteEnd = &ReporterError{
		Category: ErrCategoryEvent,
		Code:     "unbalanced_suite_end",
		Message:  "suite end without a matching suite start",
	}
	ErrUnknownEvent = &ReporterError{
		Category: ErrCategoryEvent,
		Code:     "unknown_event",
		Message:  "unknown event kind",
	}
	ErrMalformedEvent = &ReporterError{
		Category: ErrCategoryEvent,
		Code:     "malformed_event",
		Message:  "malformed event",
	}
	ErrUnclosedSuites = &ReporterError{
		Category: ErrCategoryEvent,
		Code:     "unclosed_suites",
		Message:  "event stream ended with open suites",
	}

	// Render errors
	ErrUnknownFormat = &ReporterError{
		Category: ErrCategoryRender,
		Code:     "unknown_format",
		Message:  "unknown report format",
	}

	// IO errors
	ErrWriteFailed = &ReporterError{
		Category: ErrCategoryIO,
		Code:     "write_failed",
		Message:  "failed to write report",
	}
)
