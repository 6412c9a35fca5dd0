package render

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Markers shown before node labels in console renderings.
const (
	markPassed  = "✓"
	markFailed  = "✗"
	markPending = "-"
)

// Text renders the console tree and summary table into report.txt.
type Text struct {
	NoColor bool
}

// Name returns the format name.
func (Text) Name() string { return "text" }

// Render writes report.txt.
func (t Text) Render(doc *Document) ([]output.File, error) {
	var b strings.Builder
	b.WriteString(Tree(doc.Root, t.NoColor))
	b.WriteString("\n\n")
	b.WriteString(SummaryTable(doc, t.NoColor))
	b.WriteString("\n")
	return []output.File{{Name: "report.txt", Data: []byte(b.String())}}, nil
}

// Tree renders the report tree as an indented list.
func Tree(root *report.Node, noColor bool) string {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	appendTreeItems(l, root.Children, noColor)
	if l.Length() == 0 {
		return "(no suites or tests)"
	}
	return l.Render()
}

func appendTreeItems(l list.Writer, nodes []*report.Node, noColor bool) {
	for _, n := range nodes {
		l.AppendItem(treeItem(n, noColor))
		if len(n.Children) > 0 {
			l.Indent()
			appendTreeItems(l, n.Children, noColor)
			l.UnIndent()
		}
	}
}

func treeItem(n *report.Node, noColor bool) string {
	mark, color := markPassed, text.FgGreen
	switch {
	case n.Pending:
		mark, color = markPending, text.FgHiBlack
	case n.Failed:
		mark, color = markFailed, text.FgRed
	}

	item := mark + " " + report.Escape(n.Label)
	if n.IsTest() && n.Failed {
		first, _, _ := strings.Cut(report.Escape(n.FailureMessage), "\n")
		item += ": " + first
	}
	if noColor {
		return item
	}
	return color.Sprint(item)
}

// SummaryTable renders the summary counts of a document.
func SummaryTable(doc *Document, noColor bool) string {
	s := doc.Summary

	t := table.NewWriter()
	t.SetTitle(doc.Title)
	t.AppendHeader(table.Row{"Suites", "Failed suites", "Tests", "Passed", "Failed", "Pending", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suites", Align: text.AlignRight},
		{Name: "Failed suites", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Pending", Align: text.AlignRight},
	})
	t.AppendRow(table.Row{s.Suites, s.FailedSuites, s.Tests, s.Passed, s.Failed, s.Pending, runStatus(s)})
	if doc.RunID != "" {
		t.SetCaption(fmt.Sprintf("run %s", doc.RunID))
	}

	switch {
	case noColor:
		t.SetStyle(table.StyleLight)
	case s.HasFailures():
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	return t.Render()
}

func runStatus(s report.Summary) string {
	if s.HasFailures() {
		return "FAIL"
	}
	return "PASS"
}
