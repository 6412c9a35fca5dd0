package report

import (
	"strings"
	"testing"

	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	b.OnSuiteStart(suite("A"))
	b.OnTestEnd(passed("a1"))
	b.OnSuiteStart(suite("B"))
	b.OnTestEnd(failed("b1", "boom"))
	b.OnTestEnd(event.Test{Title: "b2", Pending: true})
	require.NoError(t, b.OnSuiteEnd(suite("B")))
	require.NoError(t, b.OnSuiteEnd(suite("A")))
	b.OnSuiteStart(suite("C"))
	b.OnTestEnd(passed("c1"))
	require.NoError(t, b.OnSuiteEnd(suite("C")))
	return b
}

func TestWalk_PathsAndOrder(t *testing.T) {
	b := sampleTree(t)

	var visited []string
	Walk(b.Root(), func(n *Node, path []string) bool {
		visited = append(visited, strings.Join(append(path, n.Label), "/"))
		return true
	})

	assert.Equal(t, []string{
		"report",
		"A",
		"A/a1",
		"A/B",
		"A/B/b1",
		"A/B/b2",
		"C",
		"C/c1",
	}, visited)
}

func TestWalk_SkipChildren(t *testing.T) {
	b := sampleTree(t)

	var visited []string
	Walk(b.Root(), func(n *Node, _ []string) bool {
		visited = append(visited, n.Label)
		return n.Label != "A"
	})
	assert.Equal(t, []string{"report", "A", "C", "c1"}, visited)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTree(t).Root())

	assert.Equal(t, Summary{
		Suites:       3,
		FailedSuites: 2,
		Tests:        4,
		Passed:       2,
		Failed:       1,
		Pending:      1,
	}, s)
	assert.True(t, s.HasFailures())
	assert.False(t, Summary{Tests: 1, Passed: 1}.HasFailures())
}

func TestNode_Clone(t *testing.T) {
	b := sampleTree(t)
	c := b.Root().Clone()

	assert.Equal(t, b.Root(), c)
	c.Children[0].Label = "changed"
	c.Children[0].Children = nil
	assert.Equal(t, "A", b.Root().Children[0].Label)
	assert.Len(t, b.Root().Children[0].Children, 2)
}
