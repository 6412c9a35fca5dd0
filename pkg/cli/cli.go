// Package cli provides the command-line interface for suite-reporter.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/config"
	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to suite-reporter.yaml (default: ./suite-reporter.yaml, then $SUITE_REPORTER_HOME)",
		EnvVars: []string{"SUITE_REPORTER_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging to stderr and a log file (default: <home>/logs/)",
		EnvVars: []string{"SUITE_REPORTER_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file",
		EnvVars: []string{"SUITE_REPORTER_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the application. Output goes to stdout and errors to stderr
// unless the caller replaces app.Writer and app.ErrWriter.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "suite-reporter",
		Usage:   "Build call/return report trees from test runner events",
		Version: Version,
		Description: `suite-reporter consumes suite and test lifecycle events and builds a
tree of scopes. A failing test marks every open suite with ErrorInCallTo.

Events are newline-delimited JSON, or a YAML script for .yaml/.yml files.

Examples:
  suite-reporter render --output ./reports events.ndjson
  suite-reporter render -o ./reports -f xml -f html events.yaml
  mocha --reporter json-stream | suite-reporter serve -o ./reports -
  suite-reporter validate events.ndjson`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			renderCommand,
			serveCommand,
			validateCommand,
		},
		Before: setup,
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
	}
}

// .env results, loaded before flag parsing and logged once logging is up.
var (
	dotEnvLoaded []string
	dotEnvErr    error
)

// Execute runs the CLI.
func Execute() {
	if err := Run(NewApp(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Run loads .env files and then runs app. Loading comes first so the EnvVars
// of global flags see the values too.
func Run(app *cli.App, args []string) error {
	dotEnvLoaded, dotEnvErr = config.LoadDotEnv()
	return app.Run(args)
}

// setup initializes logging before any command runs. --verbose without
// --log-file also writes a log under <home>/logs.
func setup(c *cli.Context) error {
	if c.Bool("no-ansi") {
		colorsEnabled = false
	}

	logPath := c.String("log-file")
	var console io.Writer
	if c.Bool("verbose") {
		console = c.App.ErrWriter
		if console == nil {
			console = os.Stderr
		}
		if logPath == "" {
			path, err := config.NewLogFile(time.Now())
			if err != nil {
				return err
			}
			logPath = path
		}
	}
	if err := logger.Init(logger.Options{
		Path:    logPath,
		Console: console,
		Verbose: c.Bool("verbose"),
	}); err != nil {
		return err
	}

	if dotEnvErr != nil {
		logger.Warn("Failed to load .env: %v", dotEnvErr)
	}
	for _, path := range dotEnvLoaded {
		logger.Debug("Loaded environment from %s", path)
	}
	if logPath != "" {
		logger.Debug("Logging to %s", logPath)
	}
	return nil
}
