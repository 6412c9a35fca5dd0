// Package report builds a live report tree from the lifecycle events of a
// hierarchical test run.
//
// Architecture:
//   - Builder: consumes suite start, suite end and test end events in order
//   - Node: suite or test call, attached to its parent as soon as it is produced
//   - Scope stack: the open suites, root first; a failing test marks every
//     node on it as failed
//
// The tree is owned by the Builder. Renderers read it and never mutate it.
package report

// NoFailure is the failure message of a node that has not failed.
const NoFailure = "none"

// ErrorInCallTo is the failure message forced onto every open scope when a
// test inside it fails.
const ErrorInCallTo = "ErrorInCallTo"

// RootLabel is the label of the root node.
const RootLabel = "report"

// Kind distinguishes the root, suite calls and test calls.
type Kind string

// Kind values.
const (
	KindRoot  Kind = "root"
	KindSuite Kind = "suite"
	KindTest  Kind = "test"
)

// Node is a suite call or test call in the report tree.
type Node struct {
	Label          string  `json:"label"`
	Kind           Kind    `json:"kind"`
	Failed         bool    `json:"failed"`
	FailureMessage string  `json:"failureMessage"`
	Pending        bool    `json:"pending,omitempty"`
	Duration       int64   `json:"duration,omitempty"` // milliseconds, tests only
	Children       []*Node `json:"children,omitempty"`
}

func newNode(kind Kind, label string) *Node {
	return &Node{
		Label:          label,
		Kind:           kind,
		FailureMessage: NoFailure,
	}
}

// markFailed forces the node into the failed state with msg.
func (n *Node) markFailed(msg string) {
	n.Failed = true
	n.FailureMessage = msg
}

// IsTest returns true for test calls.
func (n *Node) IsTest() bool {
	return n.Kind == KindTest
}
