package report

import (
	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"github.com/devicelab-dev/suite-reporter/pkg/event"
)

// Builder turns an ordered event stream into a report tree.
//
// It is a synchronous state machine and is not safe for concurrent use;
// callers that read the tree while events are applied must serialize access.
type Builder struct {
	root *Node
	// stack holds the open scopes, root at index 0, innermost last.
	stack []*Node
}

// NewBuilder creates a Builder with an empty root scope.
func NewBuilder() *Builder {
	root := newNode(KindRoot, RootLabel)
	return &Builder{
		root:  root,
		stack: []*Node{root},
	}
}

// Root returns the root node. It owns the whole tree and is never closed.
func (b *Builder) Root() *Node {
	return b.root
}

// Current returns the innermost open scope.
func (b *Builder) Current() *Node {
	return b.stack[len(b.stack)-1]
}

// Depth returns the number of open scopes, root included.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// OnSuiteStart attaches a node for the suite to the current scope and opens it.
// The runner's synthetic root suite is ignored.
func (b *Builder) OnSuiteStart(suite event.Suite) {
	if suite.Root {
		return
	}
	n := newNode(KindSuite, suite.Title)
	cur := b.Current()
	cur.Children = append(cur.Children, n)
	b.stack = append(b.stack, n)
}

// OnSuiteEnd closes the current scope. The node stays in the tree.
// An end with only the root open is rejected and leaves the stack untouched.
func (b *Builder) OnSuiteEnd(suite event.Suite) error {
	if suite.Root {
		return nil
	}
	if len(b.stack) == 1 {
		return core.ErrUnbalancedSuiteEnd.WithDetails(map[string]interface{}{"suite": suite.Title})
	}
	b.stack[len(b.stack)-1] = nil
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

// OnTestEnd attaches a resolved node for the test to the current scope.
// If the test failed, every open scope, root included, is marked failed
// with ErrorInCallTo. Scopes are never reset once marked.
func (b *Builder) OnTestEnd(test event.Test) {
	outcome := core.OutcomeOf(test.Pending, test.State)

	n := newNode(KindTest, test.Title)
	n.Pending = outcome == core.OutcomePending
	n.Duration = test.Duration

	cur := b.Current()
	cur.Children = append(cur.Children, n)

	if !outcome.IsFailure() {
		return
	}

	n.markFailed(FailureMessage(test.Err))
	for _, scope := range b.stack {
		scope.markFailed(ErrorInCallTo)
	}
}
