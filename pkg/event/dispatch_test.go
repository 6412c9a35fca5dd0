package event

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	calls   []string
	failEnd bool
}

func (r *recordingListener) OnSuiteStart(s Suite) { r.calls = append(r.calls, "start:"+s.Title) }

func (r *recordingListener) OnSuiteEnd(s Suite) error {
	r.calls = append(r.calls, "end:"+s.Title)
	if r.failEnd {
		return core.ErrUnbalancedSuiteEnd
	}
	return nil
}

func (r *recordingListener) OnTestEnd(t Test) { r.calls = append(r.calls, "test:"+t.Title) }

func TestDispatch_PreservesOrder(t *testing.T) {
	src := NewSliceSource(
		SuiteStart("A"),
		TestEnd(Test{Title: "t1", State: "passed"}),
		SuiteStart("B"),
		TestEnd(Test{Title: "t2", State: "failed"}),
		SuiteEnd("B"),
		SuiteEnd("A"),
	)
	l := &recordingListener{}

	n, err := Dispatch(context.Background(), src, l)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"start:A", "test:t1", "start:B", "test:t2", "end:B", "end:A"}, l.calls)
}

func TestDispatch_StopsOnListenerError(t *testing.T) {
	src := NewSliceSource(SuiteEnd("A"), SuiteStart("B"))
	l := &recordingListener{failEnd: true}

	n, err := Dispatch(context.Background(), src, l)
	assert.Equal(t, 0, n)
	assert.True(t, errors.Is(err, core.ErrUnbalancedSuiteEnd))
	assert.Equal(t, []string{"end:A"}, l.calls)
}

func TestDispatch_StopsOnSourceError(t *testing.T) {
	src := NewStreamSource(strings.NewReader("{\"event\":\"suite\",\"suite\":{\"title\":\"A\"}}\nnot json\n"))
	l := &recordingListener{}

	n, err := Dispatch(context.Background(), src, l)
	assert.Equal(t, 1, n)
	assert.True(t, errors.Is(err, core.ErrMalformedEvent))
}

func TestDispatch_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Dispatch(ctx, NewSliceSource(SuiteStart("A")), &recordingListener{})
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeliver_UnknownKind(t *testing.T) {
	err := Deliver(Event{Kind: "bogus"}, &recordingListener{})
	assert.True(t, errors.Is(err, core.ErrUnknownEvent))
}

func TestDeliver_MissingPayload(t *testing.T) {
	for _, ev := range []Event{
		{Kind: KindSuiteStart},
		{Kind: KindSuiteEnd},
		{Kind: KindTestEnd},
	} {
		l := &recordingListener{}
		err := Deliver(ev, l)
		assert.ErrorIs(t, err, core.ErrMalformedEvent, ev.Kind)
		assert.Empty(t, l.calls, ev.Kind)
	}
}

func TestBalanceChecker(t *testing.T) {
	b := &BalanceChecker{}
	b.OnSuiteStart(Suite{Root: true})
	b.OnSuiteStart(Suite{Title: "A"})
	b.OnSuiteStart(Suite{Title: "B"})
	b.OnTestEnd(Test{Title: "t"})
	require.NoError(t, b.OnSuiteEnd(Suite{Title: "B"}))
	assert.True(t, errors.Is(b.Close(), core.ErrUnclosedSuites))
	require.NoError(t, b.OnSuiteEnd(Suite{Title: "A"}))
	require.NoError(t, b.OnSuiteEnd(Suite{Root: true}))
	assert.NoError(t, b.Close())

	assert.Equal(t, 2, b.Suites())
	assert.Equal(t, 1, b.Tests())
	assert.Equal(t, 2, b.MaxDepth())

	assert.True(t, errors.Is(b.OnSuiteEnd(Suite{Title: "extra"}), core.ErrUnbalancedSuiteEnd))
}
