// Package event models the lifecycle events of a hierarchical test run and
// feeds them, in order, to a listener.
//
// Events arrive as NDJSON (one record per line, as streamed by a runner) or
// as a YAML script of recorded events. Both share the same record shape:
//
//	{"event":"suite","suite":{"title":"A","root":false}}
//	{"event":"test end","test":{"title":"t1","state":"failed","err":{"message":"x"}}}
//	{"event":"suite end","suite":{"title":"A"}}
package event

import "fmt"

// Kind is the lifecycle event name.
type Kind string

// Event kinds consumed by the report builder.
const (
	KindSuiteStart Kind = "suite"
	KindSuiteEnd   Kind = "suite end"
	KindTestEnd    Kind = "test end"
)

// Runner lifecycle kinds that carry nothing the report needs.
var ignoredKinds = map[Kind]bool{
	"start":    true,
	"end":      true,
	"test":     true,
	"pass":     true,
	"fail":     true,
	"pending":  true,
	"hook":     true,
	"hook end": true,
	"waiting":  true,
}

// IsIgnored reports whether the kind is a known runner event with no report effect.
func (k Kind) IsIgnored() bool {
	return ignoredKinds[k]
}

// Suite is a named grouping of tests and nested suites.
type Suite struct {
	Title string `json:"title" yaml:"title"`
	Root  bool   `json:"root,omitempty" yaml:"root,omitempty"` // Synthetic root suite of the runner
}

// Test is a finished test.
type Test struct {
	Title    string     `json:"title" yaml:"title"`
	Pending  bool       `json:"pending,omitempty" yaml:"pending,omitempty"`
	State    string     `json:"state,omitempty" yaml:"state,omitempty"` // "passed" on success
	Duration int64      `json:"duration,omitempty" yaml:"duration,omitempty"` // milliseconds
	Err      *TestError `json:"err,omitempty" yaml:"err,omitempty"`
}

// TestError is the error object a runner attaches to a failed test.
// On the wire the source location is flattened into sourceURL and line.
type TestError struct {
	Message string
	Stack   string
	String  string // The error's own stringification
	Source  *SourceLocation
}

// SourceLocation points at the line that raised the error.
type SourceLocation struct {
	File string
	Line int
}

// String formats the location as file:line.
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Event is one lifecycle event. Suite is set for suite kinds, Test for test end.
type Event struct {
	Kind  Kind
	Suite *Suite
	Test  *Test
}

// Listener receives events in stream order.
type Listener interface {
	OnSuiteStart(suite Suite)
	OnSuiteEnd(suite Suite) error
	OnTestEnd(test Test)
}
