package event

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
)

// Dispatch reads events from src and hands each one to l before reading the
// next. It stops at the end of the source, on the first source or listener
// error, or when ctx is cancelled between events. It returns the number of
// events delivered.
func Dispatch(ctx context.Context, src Source, l Listener) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		if err := Deliver(ev, l); err != nil {
			return n, fmt.Errorf("event %d (%s): %w", n+1, ev.Kind, err)
		}
		n++
	}
}

// Deliver routes a single event to the matching listener method.
// An event without the payload its kind requires is rejected.
func Deliver(ev Event, l Listener) error {
	switch ev.Kind {
	case KindSuiteStart, KindSuiteEnd:
		if ev.Suite == nil {
			return core.ErrMalformedEvent.WithMessage(fmt.Sprintf("%q event without suite", ev.Kind))
		}
	case KindTestEnd:
		if ev.Test == nil {
			return core.ErrMalformedEvent.WithMessage(fmt.Sprintf("%q event without test", ev.Kind))
		}
	}

	switch ev.Kind {
	case KindSuiteStart:
		l.OnSuiteStart(*ev.Suite)
	case KindSuiteEnd:
		return l.OnSuiteEnd(*ev.Suite)
	case KindTestEnd:
		l.OnTestEnd(*ev.Test)
	default:
		return core.ErrUnknownEvent.WithDetails(map[string]interface{}{"event": string(ev.Kind)})
	}
	return nil
}

// BalanceChecker is a Listener that only tracks suite nesting. It is used to
// validate a stream without building a report.
type BalanceChecker struct {
	depth    int
	maxDepth int
	suites   int
	tests    int
}

// OnSuiteStart opens a scope unless the suite is the runner's root.
func (b *BalanceChecker) OnSuiteStart(suite Suite) {
	if suite.Root {
		return
	}
	b.suites++
	b.depth++
	if b.depth > b.maxDepth {
		b.maxDepth = b.depth
	}
}

// OnSuiteEnd closes a scope and rejects an end without a start.
func (b *BalanceChecker) OnSuiteEnd(suite Suite) error {
	if suite.Root {
		return nil
	}
	if b.depth == 0 {
		return core.ErrUnbalancedSuiteEnd.WithDetails(map[string]interface{}{"suite": suite.Title})
	}
	b.depth--
	return nil
}

// OnTestEnd counts the test.
func (b *BalanceChecker) OnTestEnd(Test) {
	b.tests++
}

// Close reports suites left open at the end of the stream.
func (b *BalanceChecker) Close() error {
	if b.depth != 0 {
		return core.ErrUnclosedSuites.WithDetails(map[string]interface{}{"open": b.depth})
	}
	return nil
}

// Suites returns the number of non-root suites seen.
func (b *BalanceChecker) Suites() int { return b.suites }

// Tests returns the number of finished tests seen.
func (b *BalanceChecker) Tests() int { return b.tests }

// MaxDepth returns the deepest suite nesting seen.
func (b *BalanceChecker) MaxDepth() int { return b.maxDepth }
