// Package reporter wires the report builder to its output target, metrics
// and logging. A Reporter is the event.Listener the CLI feeds.
package reporter

import (
	"sync"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/devicelab-dev/suite-reporter/pkg/metrics"
	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/render"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Options contains configuration for a Reporter.
type Options struct {
	OutputDir  string                // Existing directory receiving renderings (required)
	Formats    []string              // Format names, default xml
	Namespace  string                // XML namespace prefix
	Title      string                // Report title
	RunID      string                // Run identifier, generated when empty
	Debounce   time.Duration         // Live write debounce, default output.DefaultDebounce
	Registerer prometheus.Registerer // Metrics registerer, nil leaves metrics unregistered
}

// Reporter applies events to a report.Builder and keeps renderings current.
// Event methods are serialized; readers use Document or Snapshot.
type Reporter struct {
	mu        sync.RWMutex
	builder   *report.Builder
	metrics   *metrics.Metrics
	target    *output.Target
	renderers []render.Renderer
	live      *output.LiveWriter
	runID     string
	title     string
	log       *logrus.Entry
}

var _ event.Listener = (*Reporter)(nil)

// New validates the output target and creates a Reporter. A missing target
// is fatal: it is logged once and no tree is built.
func New(opts Options) (*Reporter, error) {
	target, err := output.OpenTarget(opts.OutputDir)
	if err != nil {
		logger.Error("Cannot start report: %v", err)
		return nil, err
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{"xml"}
	}
	renderers, err := render.ForNames(formats, render.Options{Namespace: opts.Namespace})
	if err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	r := &Reporter{
		builder:   report.NewBuilder(),
		metrics:   metrics.New(opts.Registerer),
		target:    target,
		renderers: renderers,
		runID:     runID,
		title:     opts.Title,
		log:       logger.WithFields(logrus.Fields{"run_id": runID}),
	}
	r.live = output.NewLiveWriter(target, r.Files, opts.Debounce)
	r.metrics.SetOpenScopes(r.builder.Depth())

	r.log.WithFields(logrus.Fields{
		"output":  target.Dir(),
		"formats": formats,
	}).Info("Report started")

	return r, nil
}

// RunID returns the run identifier.
func (r *Reporter) RunID() string {
	return r.runID
}

// Target returns the output target.
func (r *Reporter) Target() *output.Target {
	return r.target
}

// OnSuiteStart opens a suite scope.
func (r *Reporter) OnSuiteStart(suite event.Suite) {
	r.mu.Lock()
	r.builder.OnSuiteStart(suite)
	depth := r.builder.Depth()
	r.mu.Unlock()

	r.metrics.RecordEvent(string(event.KindSuiteStart))
	r.metrics.SetOpenScopes(depth)
	r.log.WithFields(logrus.Fields{"suite": suite.Title, "depth": depth}).Debug("Suite started")
	r.live.Notify(false)
}

// OnSuiteEnd closes the current suite scope.
func (r *Reporter) OnSuiteEnd(suite event.Suite) error {
	r.mu.Lock()
	err := r.builder.OnSuiteEnd(suite)
	depth := r.builder.Depth()
	r.mu.Unlock()

	r.metrics.RecordEvent(string(event.KindSuiteEnd))
	if err != nil {
		r.log.WithFields(logrus.Fields{"suite": suite.Title}).Warn("Suite end without a matching start")
		return err
	}
	r.metrics.SetOpenScopes(depth)
	r.log.WithFields(logrus.Fields{"suite": suite.Title, "depth": depth}).Debug("Suite ended")
	r.live.Notify(false)
	return nil
}

// OnTestEnd records a finished test. A failure is written out immediately.
func (r *Reporter) OnTestEnd(test event.Test) {
	outcome := core.OutcomeOf(test.Pending, test.State)

	r.mu.Lock()
	r.builder.OnTestEnd(test)
	depth := r.builder.Depth()
	r.mu.Unlock()

	r.metrics.RecordEvent(string(event.KindTestEnd))
	r.metrics.RecordTest(outcome.String())

	fields := logrus.Fields{"test": test.Title, "outcome": outcome.String()}
	if outcome.IsFailure() {
		r.metrics.RecordPropagation()
		fields["open_scopes"] = depth
		r.log.WithFields(fields).Info("Test failed")
	} else {
		r.log.WithFields(fields).Debug("Test finished")
	}
	r.live.Notify(outcome.IsFailure())
}

// Snapshot calls fn with the live tree while no event is being applied.
// fn must not retain or modify the tree.
func (r *Reporter) Snapshot(fn func(root *report.Node, depth int)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.builder.Root(), r.builder.Depth())
}

// Document returns a document over a copy of the current tree.
func (r *Reporter) Document() *render.Document {
	var root *report.Node
	r.Snapshot(func(n *report.Node, _ int) {
		root = n.Clone()
	})
	return render.NewDocument(r.runID, r.title, root)
}

// Files renders the current tree with the configured renderers.
func (r *Reporter) Files() ([]output.File, error) {
	return render.All(r.Document(), r.renderers)
}

// Finish writes the final renderings and returns the run summary.
func (r *Reporter) Finish() (report.Summary, error) {
	var summary report.Summary
	var depth int
	r.Snapshot(func(n *report.Node, d int) {
		summary = report.Summarize(n)
		depth = d
	})

	if depth > 1 {
		r.log.WithFields(logrus.Fields{"open_suites": depth - 1}).Warn("Event stream ended with open suites")
	}

	if err := r.live.Close(); err != nil {
		r.log.WithError(err).Error("Failed to write report")
		return summary, err
	}

	r.log.WithFields(logrus.Fields{
		"tests":  summary.Tests,
		"passed": summary.Passed,
		"failed": summary.Failed,
	}).Info("Report finished")
	return summary, nil
}
