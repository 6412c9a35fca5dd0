package render

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
	"github.com/google/uuid"
)

// AllureDir is the directory Allure results are written into.
const AllureDir = "allure-results"

// allureNamespace seeds deterministic result UUIDs.
var allureNamespace = uuid.MustParse("6f1c3c4e-6d1b-4f0a-9a55-3c8a3d0f6a10")

// Allure result schema types.

// AllureResult represents a single test result in Allure format.
type AllureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	FullName      string              `json:"fullName"`
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []AllureLabel       `json:"labels"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Steps         []AllureStep        `json:"steps"`
}

// AllureStep represents a step within a test result.
type AllureStep struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AllureLabel represents a label on a test result.
type AllureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AllureStatusDetails holds failure message and trace.
type AllureStatusDetails struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

// AllureCategory defines a failure category with regex matching.
type AllureCategory struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex"`
}

// AllureExecutor holds executor info.
type AllureExecutor struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	BuildName string `json:"buildName,omitempty"`
}

// Allure renders one result file per test plus categories and executor files.
type Allure struct{}

// Name returns the format name.
func (Allure) Name() string { return "allure" }

// Render writes allure-results/.
func (Allure) Render(doc *Document) ([]output.File, error) {
	start := doc.Generated.UnixMilli()
	var files []output.File
	var err error

	report.Walk(doc.Root, func(n *report.Node, path []string) bool {
		if err != nil || !n.IsTest() {
			return err == nil
		}

		result := buildAllureResult(n, path, doc.RunID, start)
		data, merr := json.MarshalIndent(result, "", "  ")
		if merr != nil {
			err = fmt.Errorf("marshal allure result for %s: %w", result.FullName, merr)
			return false
		}
		files = append(files, output.File{
			Name: AllureDir + "/" + result.UUID + "-result.json",
			Data: data,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	categories, err := allureCategories()
	if err != nil {
		return nil, err
	}
	executor, err := allureExecutor(doc.RunID)
	if err != nil {
		return nil, err
	}

	return append(files, categories, executor), nil
}

// buildAllureResult builds an AllureResult from a test node and its suite path.
func buildAllureResult(n *report.Node, path []string, runID string, start int64) AllureResult {
	fullName := strings.Join(append(append([]string(nil), path...), n.Label), " › ")

	labels := []AllureLabel{
		{Name: "framework", Value: "suite-reporter"},
		{Name: "severity", Value: "normal"},
	}
	// Allure nests at most three suite levels; deeper paths fold into subSuite.
	switch len(path) {
	case 0:
	case 1:
		labels = append(labels, AllureLabel{Name: "suite", Value: path[0]})
	case 2:
		labels = append(labels,
			AllureLabel{Name: "parentSuite", Value: path[0]},
			AllureLabel{Name: "suite", Value: path[1]},
		)
	default:
		labels = append(labels,
			AllureLabel{Name: "parentSuite", Value: path[0]},
			AllureLabel{Name: "suite", Value: path[1]},
			AllureLabel{Name: "subSuite", Value: strings.Join(path[2:], " › ")},
		)
	}

	var details AllureStatusDetails
	if n.Failed {
		msg, trace, _ := strings.Cut(n.FailureMessage, "\n")
		details.Message = msg
		details.Trace = trace
	}

	return AllureResult{
		UUID:          uuid.NewSHA1(allureNamespace, []byte(runID+"\x00"+fullName)).String(),
		HistoryID:     fnv32aHash(fullName),
		FullName:      fullName,
		Name:          n.Label,
		Status:        mapAllureStatus(n),
		Stage:         "finished",
		Start:         start,
		Stop:          start + n.Duration,
		Labels:        labels,
		StatusDetails: details,
		Steps:         []AllureStep{},
	}
}

// mapAllureStatus maps a test node to Allure status string.
func mapAllureStatus(n *report.Node) string {
	switch {
	case n.Pending:
		return "skipped"
	case n.Failed:
		return "failed"
	default:
		return "passed"
	}
}

// fnv32aHash returns a hex-encoded FNV-32a hash of the input string.
func fnv32aHash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// allureCategories builds categories.json for failure categorization.
func allureCategories() (output.File, error) {
	categories := []AllureCategory{
		{Name: "Timeout", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*timeout.*|.*timed out.*"},
		{Name: "Assertion Failed", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*assert.*|.*expected.*"},
		{Name: "Type Error", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*typeerror.*|.*is not a function.*|.*undefined.*"},
		{Name: "Connection Error", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*connection.*|.*socket.*|.*network.*"},
	}

	data, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return output.File{}, fmt.Errorf("marshal categories: %w", err)
	}
	return output.File{Name: AllureDir + "/categories.json", Data: data}, nil
}

// allureExecutor builds executor.json.
func allureExecutor(runID string) (output.File, error) {
	executor := AllureExecutor{
		Name:      "suite-reporter",
		Type:      "suite-reporter",
		BuildName: runID,
	}

	data, err := json.MarshalIndent(executor, "", "  ")
	if err != nil {
		return output.File{}, fmt.Errorf("marshal executor: %w", err)
	}
	return output.File{Name: AllureDir + "/executor.json", Data: data}, nil
}
