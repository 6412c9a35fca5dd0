// Package render translates a report tree into serialized and visual forms.
// Renderers only read the tree.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
)

// Document is a report tree together with run metadata.
type Document struct {
	RunID     string
	Title     string
	Generated time.Time
	Root      *report.Node
	Summary   report.Summary
}

// NewDocument wraps root and computes its summary.
func NewDocument(runID, title string, root *report.Node) *Document {
	if title == "" {
		title = "Test Report"
	}
	return &Document{
		RunID:     runID,
		Title:     title,
		Generated: time.Now().UTC(),
		Root:      root,
		Summary:   report.Summarize(root),
	}
}

// Renderer produces one or more files from a document.
type Renderer interface {
	Name() string
	Render(doc *Document) ([]output.File, error)
}

// Options tunes the renderers that have settings.
type Options struct {
	Namespace string // XML namespace prefix
	NoColor   bool   // Console renderings without ANSI colors
}

var formats = map[string]func(Options) Renderer{
	"xml":    func(o Options) Renderer { return NewXML(o.Namespace) },
	"json":   func(Options) Renderer { return JSON{} },
	"html":   func(Options) Renderer { return HTML{} },
	"allure": func(Options) Renderer { return Allure{} },
	"text":   func(Options) Renderer { return Text{NoColor: true} },
}

// Formats returns the known format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForNames resolves format names to renderers, dropping duplicates.
func ForNames(names []string, opts Options) ([]Renderer, error) {
	seen := make(map[string]bool)
	var renderers []Renderer
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		ctor, ok := formats[name]
		if !ok {
			return nil, core.ErrUnknownFormat.
				WithMessage(fmt.Sprintf("unknown report format %q (known: %s)", name, strings.Join(Formats(), ", "))).
				WithDetails(map[string]interface{}{"format": name})
		}
		seen[name] = true
		renderers = append(renderers, ctor(opts))
	}
	return renderers, nil
}

// All renders doc with every renderer and concatenates the files.
func All(doc *Document, renderers []Renderer) ([]output.File, error) {
	var files []output.File
	for _, r := range renderers {
		f, err := r.Render(doc)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", r.Name(), err)
		}
		files = append(files, f...)
	}
	return files, nil
}
