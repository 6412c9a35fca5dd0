package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/config"
	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/devicelab-dev/suite-reporter/pkg/render"
	"github.com/devicelab-dev/suite-reporter/pkg/reporter"
	"github.com/urfave/cli/v2"
)

// Flags shared by render and serve.
var reportFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Existing output directory for renderings",
		EnvVars: []string{"SUITE_REPORTER_OUTPUT"},
	},
	&cli.StringSliceFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Rendering to write, repeatable (%s) (default: xml)", strings.Join(render.Formats(), ", ")),
		EnvVars: []string{"SUITE_REPORTER_FORMATS"},
	},
	&cli.StringFlag{
		Name:  "namespace",
		Usage: "XML namespace prefix for call/return elements",
		Value: render.DefaultNamespace,
	},
	&cli.StringFlag{
		Name:  "title",
		Usage: "Report title",
	},
	&cli.StringFlag{
		Name:    "run-id",
		Usage:   "Run identifier (default: random UUID)",
		EnvVars: []string{"SUITE_REPORTER_RUN_ID"},
	},
	&cli.BoolFlag{
		Name:  "fail-on-error",
		Usage: "Exit with status 1 when any test failed",
	},
}

// RunConfig holds the resolved settings of a render or serve run.
type RunConfig struct {
	EventsPath  string
	OutputDir   string
	Formats     []string
	Namespace   string
	Title       string
	RunID       string
	Addr        string
	Debounce    time.Duration
	FailOnError bool
	KeepAlive   bool
}

// resolveRunConfig merges the workspace config with flags. Flags set on the
// command line or through the environment win over the config file.
func resolveRunConfig(c *cli.Context) (*RunConfig, error) {
	cfg, err := config.Resolve(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Source != "" {
		logger.Debug("Loaded config from %s", cfg.Source)
	}

	getString := func(name, fromConfig string) string {
		if c.IsSet(name) || fromConfig == "" {
			return c.String(name)
		}
		return fromConfig
	}
	getBool := func(name string, fromConfig bool) bool {
		if c.IsSet(name) {
			return c.Bool(name)
		}
		return fromConfig
	}

	rc := &RunConfig{
		EventsPath:  c.Args().First(),
		OutputDir:   getString("output", cfg.Output),
		Namespace:   getString("namespace", cfg.Namespace),
		Title:       getString("title", cfg.Title),
		RunID:       c.String("run-id"),
		FailOnError: getBool("fail-on-error", cfg.FailOnError),
		Formats:     cfg.Formats,
		Debounce:    cfg.Debounce,
	}
	if c.IsSet("format") || len(rc.Formats) == 0 {
		rc.Formats = splitFormats(c.StringSlice("format"))
	}
	if hasFlag(c, "addr") {
		rc.Addr = getString("addr", cfg.Addr)
	}
	if hasFlag(c, "debounce") && (c.IsSet("debounce") || rc.Debounce == 0) {
		rc.Debounce = c.Duration("debounce")
	}
	if hasFlag(c, "keep-alive") {
		rc.KeepAlive = c.Bool("keep-alive")
	}

	if rc.OutputDir == "" {
		return nil, fmt.Errorf("--output is required (or set output in suite-reporter.yaml)")
	}
	return rc, nil
}

// hasFlag reports whether the running command defines the flag.
func hasFlag(c *cli.Context, name string) bool {
	for _, f := range c.Command.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// splitFormats accepts both repeated flags and comma-separated values.
func splitFormats(values []string) []string {
	var formats []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formats = append(formats, f)
			}
		}
	}
	return formats
}

func (rc *RunConfig) reporterOptions() reporter.Options {
	return reporter.Options{
		OutputDir: rc.OutputDir,
		Formats:   rc.Formats,
		Namespace: rc.Namespace,
		Title:     rc.Title,
		RunID:     rc.RunID,
		Debounce:  rc.Debounce,
	}
}

// openEvents opens an event source. "-" reads NDJSON from stdin, .yaml and
// .yml files are event scripts, anything else is an NDJSON file.
func openEvents(path string, stdin io.Reader) (event.Source, func(), error) {
	noop := func() {}
	switch {
	case path == "" || path == "-":
		return event.NewStreamSource(stdin), noop, nil
	case isScript(path):
		src, err := event.LoadScript(path)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return src, noop, nil
	default:
		f, err := os.Open(path) //#nosec G304 -- user-provided events file
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open events: %w", err)
		}
		return event.NewStreamSource(f), func() { f.Close() }, nil
	}
}

func isScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// contextSource stops waiting on a blocking source when ctx is done.
type contextSource struct {
	ctx context.Context
	src event.Source
}

type nextResult struct {
	ev  event.Event
	err error
}

func (s contextSource) Next() (event.Event, error) {
	ch := make(chan nextResult, 1)
	go func() {
		ev, err := s.src.Next()
		ch <- nextResult{ev, err}
	}()
	select {
	case r := <-ch:
		return r.ev, r.err
	case <-s.ctx.Done():
		return event.Event{}, s.ctx.Err()
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}
