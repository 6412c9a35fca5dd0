package render

import (
	"encoding/json"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
)

// JSONReport is the serialized shape of report.json.
type JSONReport struct {
	RunID     string         `json:"runId"`
	Title     string         `json:"title"`
	Generated time.Time      `json:"generated"`
	Summary   report.Summary `json:"summary"`
	Root      *report.Node   `json:"root"`
}

// JSON renders the tree as nested records.
type JSON struct{}

// Name returns the format name.
func (JSON) Name() string { return "json" }

// Render writes report.json.
func (JSON) Render(doc *Document) ([]output.File, error) {
	data, err := json.MarshalIndent(JSONReport{
		RunID:     doc.RunID,
		Title:     doc.Title,
		Generated: doc.Generated,
		Summary:   doc.Summary,
		Root:      doc.Root,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []output.File{{Name: "report.json", Data: data}}, nil
}
