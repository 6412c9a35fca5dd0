package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
)

// HTML renders a single self-contained page with collapsible suites.
type HTML struct{}

// Name returns the format name.
func (HTML) Name() string { return "html" }

// Render writes report.html.
func (HTML) Render(doc *Document) ([]output.File, error) {
	data, err := renderHTML(buildHTMLData(doc))
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return []output.File{{Name: "report.html", Data: data}}, nil
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title       string
	RunID       string
	GeneratedAt string
	Summary     report.Summary
	PassRate    float64
	StatusClass string
	Nodes       []NodeHTMLData
}

// NodeHTMLData contains a node formatted for HTML.
type NodeHTMLData struct {
	Label          string
	IsTest         bool
	StatusClass    string
	FailureMessage string
	DurationStr    string
	Children       []NodeHTMLData
}

func buildHTMLData(doc *Document) HTMLData {
	var passRate float64
	if run := doc.Summary.Tests - doc.Summary.Pending; run > 0 {
		passRate = float64(doc.Summary.Passed) / float64(run) * 100
	}

	return HTMLData{
		Title:       doc.Title,
		RunID:       doc.RunID,
		GeneratedAt: doc.Generated.Format("2006-01-02 15:04:05"),
		Summary:     doc.Summary,
		PassRate:    passRate,
		StatusClass: statusClass(doc.Root),
		Nodes:       buildNodeData(doc.Root.Children),
	}
}

func buildNodeData(nodes []*report.Node) []NodeHTMLData {
	out := make([]NodeHTMLData, len(nodes))
	for i, n := range nodes {
		d := NodeHTMLData{
			Label:       report.Escape(n.Label),
			IsTest:      n.IsTest(),
			StatusClass: statusClass(n),
		}
		if n.Failed {
			d.FailureMessage = report.Escape(n.FailureMessage)
		}
		if n.IsTest() && !n.Pending {
			d.DurationStr = formatDuration(n.Duration)
		}
		d.Children = buildNodeData(n.Children)
		out[i] = d
	}
	return out
}

// statusClass maps a node to its CSS class.
func statusClass(n *report.Node) string {
	switch {
	case n.Pending:
		return "pending"
	case n.Failed:
		return "failed"
	default:
		return "passed"
	}
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

func renderHTML(data HTMLData) ([]byte, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f9fafb;
            --text-primary: #000000;
            --text-muted: rgb(107, 114, 128);
            --border-color: #e5e7eb;
            --passed: #22c55e;
            --failed: #ef4444;
            --failed-bg: rgba(239, 68, 68, 0.08);
            --pending: #6b7280;
        }

        * { box-sizing: border-box; margin: 0; padding: 0; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: var(--bg-secondary);
            color: var(--text-primary);
            padding: 24px;
        }

        header { display: flex; justify-content: space-between; align-items: baseline; margin-bottom: 16px; }
        .header-title-sub { color: var(--text-muted); font-size: 13px; margin-left: 8px; }
        .legend { display: flex; gap: 16px; font-size: 14px; }
        .legend .passed { color: var(--passed); }
        .legend .failed { color: var(--failed); }
        .legend .pending { color: var(--pending); }

        .tree { background: var(--bg-primary); border: 1px solid var(--border-color); border-radius: 8px; padding: 12px; }
        details { margin-left: 16px; }
        details > summary { cursor: pointer; padding: 4px 0; }
        .test { margin-left: 32px; padding: 4px 0; display: flex; gap: 8px; align-items: baseline; }
        .status-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; }
        .status-dot.passed { background: var(--passed); }
        .status-dot.failed { background: var(--failed); }
        .status-dot.pending { background: var(--pending); }
        .duration { color: var(--text-muted); font-size: 12px; }
        pre.failure {
            margin: 4px 0 4px 48px;
            padding: 8px;
            background: var(--failed-bg);
            border-left: 3px solid var(--failed);
            white-space: pre-wrap;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <header>
        <div>
            <span class="header-title-main">{{.Title}}</span>
            <span class="header-title-sub">{{.GeneratedAt}}{{if .RunID}} &middot; {{.RunID}}{{end}}</span>
        </div>
        <div class="legend">
            <span class="passed">{{.Summary.Passed}} passed</span>
            <span class="failed">{{.Summary.Failed}} failed</span>
            <span class="pending">{{.Summary.Pending}} pending</span>
            <span>{{printf "%.1f" .PassRate}}% pass rate</span>
        </div>
    </header>
    <main class="tree run-{{.StatusClass}}">
        {{template "nodes" .Nodes}}
    </main>
</body>
</html>
{{define "nodes"}}{{range .}}{{if .IsTest}}
        <div class="test {{.StatusClass}}" data-status="{{.StatusClass}}">
            <span class="status-dot {{.StatusClass}}"></span>
            <span class="test-name">{{.Label}}</span>
            {{if .DurationStr}}<span class="duration">{{.DurationStr}}</span>{{end}}
        </div>
        {{if .FailureMessage}}<pre class="failure">{{.FailureMessage}}</pre>{{end}}{{else}}
        <details class="suite {{.StatusClass}}" data-status="{{.StatusClass}}"{{if eq .StatusClass "failed"}} open{{end}}>
            <summary><span class="status-dot {{.StatusClass}}"></span> {{.Label}}</summary>
            {{template "nodes" .Children}}
        </details>{{end}}{{end}}{{end}}
`
