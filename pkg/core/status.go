package core

// Outcome is the classified result of a finished test.
type Outcome int

const (
	OutcomePassed  Outcome = iota // Recorded state is exactly "passed"
	OutcomeFailed                 // Anything that is neither passed nor pending
	OutcomePending                // Declared but not run
)

// StatePassed is the only runner state treated as success.
const StatePassed = "passed"

// OutcomeOf classifies a test from its pending flag and recorded state.
// Pending wins over any state. An empty or unknown state counts as a failure.
func OutcomeOf(pending bool, state string) Outcome {
	if pending {
		return OutcomePending
	}
	if state == StatePassed {
		return OutcomePassed
	}
	return OutcomeFailed
}

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomePending:
		return "pending"
	default:
		return "unknown"
	}
}

// IsFailure returns true if the outcome marks the test and its open scopes as failed
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed
}

// ErrorCategory classifies reporter errors
type ErrorCategory int

const (
	ErrCategoryNone   ErrorCategory = iota // No error
	ErrCategoryConfig                      // Output target missing, bad config file
	ErrCategoryEvent                       // Malformed or unbalanced event stream
	ErrCategoryRender                      // Unknown format, template failure
	ErrCategoryIO                          // Writing renderings failed
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryConfig:
		return "config"
	case ErrCategoryEvent:
		return "event"
	case ErrCategoryRender:
		return "render"
	case ErrCategoryIO:
		return "io"
	default:
		return "unknown"
	}
}
