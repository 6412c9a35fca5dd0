package report

// Summary contains aggregated counts for a report tree.
type Summary struct {
	Suites       int `json:"suites"`
	FailedSuites int `json:"failedSuites"`
	Tests        int `json:"tests"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	Pending      int `json:"pending"`
}

// Walk visits n and its descendants depth first in insertion order.
// path holds the labels of the enclosing suites, outermost first, excluding
// the root. Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, path []string) bool) {
	walk(n, nil, fn)
}

func walk(n *Node, path []string, fn func(*Node, []string) bool) {
	if !fn(n, path) {
		return
	}
	if n.Kind == KindSuite {
		path = append(path[:len(path):len(path)], n.Label)
	}
	for _, c := range n.Children {
		walk(c, path, fn)
	}
}

// Summarize counts suites and tests below n.
func Summarize(n *Node) Summary {
	var s Summary
	Walk(n, func(n *Node, _ []string) bool {
		switch n.Kind {
		case KindSuite:
			s.Suites++
			if n.Failed {
				s.FailedSuites++
			}
		case KindTest:
			s.Tests++
			switch {
			case n.Pending:
				s.Pending++
			case n.Failed:
				s.Failed++
			default:
				s.Passed++
			}
		}
		return true
	})
	return s
}

// HasFailures returns true if any test below n failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}
