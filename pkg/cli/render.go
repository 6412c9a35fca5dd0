package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/devicelab-dev/suite-reporter/pkg/render"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
	"github.com/devicelab-dev/suite-reporter/pkg/reporter"
	"github.com/urfave/cli/v2"
)

var renderCommand = &cli.Command{
	Name:      "render",
	Usage:     "Build a report from a recorded event stream",
	ArgsUsage: "<events-file>",
	Description: `Read an event stream, build the report tree and write the requested
renderings into the output directory. The directory must already exist.

Examples:
  suite-reporter render --output ./reports events.ndjson
  suite-reporter render -o ./reports -f xml,json,html events.yaml
  suite-reporter render -o ./reports --fail-on-error events.ndjson`,
	Flags:  reportFlags,
	Action: runRender,
}

func runRender(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one events file is required")
	}

	rc, err := resolveRunConfig(c)
	if err != nil {
		return err
	}

	rep, err := reporter.New(rc.reporterOptions())
	if err != nil {
		return err
	}

	src, closeSrc, err := openEvents(rc.EventsPath, c.App.Reader)
	if err != nil {
		return err
	}
	defer closeSrc()

	logger.Info("Rendering %s into %s", rc.EventsPath, rc.OutputDir)
	n, dispatchErr := event.Dispatch(c.Context, src, rep)
	logger.Info("Applied %d event(s)", n)

	summary, finishErr := rep.Finish()
	if err := errors.Join(dispatchErr, finishErr); err != nil {
		return err
	}

	printReport(c.App.Writer, rep.Document(), rc.OutputDir)

	if rc.FailOnError && summary.HasFailures() {
		return cli.Exit("", 1)
	}
	return nil
}

// printReport prints the console tree and summary table.
func printReport(w io.Writer, doc *render.Document, outputDir string) {
	noColor := !colorsEnabled

	fmt.Fprintln(w)
	fmt.Fprintln(w, render.Tree(doc.Root, noColor))
	fmt.Fprintln(w)
	fmt.Fprintln(w, render.SummaryTable(doc, noColor))

	mark := color(colorGreen) + "✓" + color(colorReset)
	if doc.Summary.HasFailures() {
		mark = color(colorRed) + "✗" + color(colorReset)
	}
	fmt.Fprintf(w, "\n  %s Report written to %s%s%s\n", mark, color(colorBold), outputDir, color(colorReset))
	if doc.Summary.FailedSuites > 0 {
		fmt.Fprintf(w, "  %s%d suite(s) marked %s%s\n",
			color(colorYellow), doc.Summary.FailedSuites, report.ErrorInCallTo, color(colorReset))
	}
}
