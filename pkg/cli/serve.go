package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/devicelab-dev/suite-reporter/pkg/render"
	"github.com/devicelab-dev/suite-reporter/pkg/reporter"
	"github.com/devicelab-dev/suite-reporter/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCommand = &cli.Command{
	Name:      "serve",
	Usage:     "Build a report from a live event stream and serve it over HTTP",
	ArgsUsage: "[events-file|-]",
	Description: `Consume events from a file or stdin while serving the live report.
Renderings in the output directory are refreshed as events arrive, and
immediately after a failing test.

Endpoints: / (HTML), /report.xml, /report.json, /summary, /healthz, /metrics

Examples:
  mocha --reporter json-stream | suite-reporter serve -o ./reports -
  suite-reporter serve -o ./reports --addr :9797 --keep-alive events.ndjson`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "HTTP listen address",
			Value:   "127.0.0.1:9797",
			EnvVars: []string{"SUITE_REPORTER_ADDR"},
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Delay before non-urgent changes are written",
			Value: 100 * time.Millisecond,
		},
		&cli.BoolFlag{
			Name:  "keep-alive",
			Usage: "Keep serving after the event stream ends, until interrupted",
		},
	}, reportFlags...),
	Action: runServe,
}

func runServe(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("at most one events source is allowed")
	}

	rc, err := resolveRunConfig(c)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := rc.reporterOptions()
	opts.Registerer = reg
	rep, err := reporter.New(opts)
	if err != nil {
		return err
	}

	src, closeSrc, err := openEvents(rc.EventsPath, c.App.Reader)
	if err != nil {
		return err
	}
	defer closeSrc()

	srv := server.New(rc.Addr, rep, reg, render.Options{Namespace: rc.Namespace})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.App.Writer, "  %sServing live report on http://%s%s\n", color(colorCyan), rc.Addr, color(colorReset))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down live report server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		n, err := event.Dispatch(gctx, contextSource{ctx: gctx, src: src}, rep)
		logger.Info("Applied %d event(s)", n)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if err == nil {
			fmt.Fprintf(c.App.Writer, "  %sEvent stream ended%s (%d events)\n", color(colorCyan), color(colorReset), n)
			if !rc.KeepAlive {
				stop()
			}
		}
		return nil
	})

	waitErr := g.Wait()

	summary, finishErr := rep.Finish()
	if err := errors.Join(waitErr, finishErr); err != nil {
		return err
	}

	printReport(c.App.Writer, rep.Document(), rc.OutputDir)

	if rc.FailOnError && summary.HasFailures() {
		return cli.Exit("", 1)
	}
	return nil
}
