package cli

import (
	"fmt"

	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/urfave/cli/v2"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Check that an event stream decodes and its suites are balanced",
	ArgsUsage: "<events-file|->",
	Description: `Decode every event and check that each suite end matches an open
suite and that no suite is left open. Nothing is rendered.

Examples:
  suite-reporter validate events.ndjson
  suite-reporter validate events.yaml`,
	Action: runValidate,
}

func runValidate(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one events file is required")
	}
	path := c.Args().First()

	src, closeSrc, err := openEvents(path, c.App.Reader)
	if err != nil {
		return err
	}
	defer closeSrc()

	checker := &event.BalanceChecker{}
	n, err := event.Dispatch(c.Context, src, checker)
	if err == nil {
		err = checker.Close()
	}
	if err != nil {
		logger.Error("Validation of %s failed: %v", path, err)
		fmt.Fprintf(c.App.Writer, "  %s✗ %s is invalid%s\n", color(colorRed), path, color(colorReset))
		return err
	}

	logger.Info("Validated %s: %d event(s)", path, n)
	fmt.Fprintf(c.App.Writer, "  %s✓ %s is valid%s: %d events, %d suites, %d tests, max depth %d\n",
		color(colorGreen), path, color(colorReset), n, checker.Suites(), checker.Tests(), checker.MaxDepth())
	return nil
}
