// Package server serves a live view of a report while events arrive.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/logger"
	"github.com/devicelab-dev/suite-reporter/pkg/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// DocumentSource provides the current report. *reporter.Reporter implements it.
type DocumentSource interface {
	Document() *render.Document
}

// Server is the live HTTP view.
type Server struct {
	addr     string
	source   DocumentSource
	gatherer prometheus.Gatherer
	opts     render.Options
	server   *http.Server
}

// New creates a Server. A nil gatherer serves the default Prometheus registry.
func New(addr string, source DocumentSource, gatherer prometheus.Gatherer, opts render.Options) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		addr:     addr,
		source:   source,
		gatherer: gatherer,
		opts:     opts,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          log.New(logger.GetWriter(), "http: ", log.LstdFlags),
	}
	return s
}

// Handler returns the routes wrapped in a CORS handler allowing all origins.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleFormat(render.HTML{}, "text/html; charset=utf-8"))
	mux.HandleFunc("/report.xml", s.handleFormat(render.NewXML(s.opts.Namespace), "application/xml; charset=utf-8"))
	mux.HandleFunc("/report.json", s.handleFormat(render.JSON{}, "application/json"))
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	return c.Handler(mux)
}

// Start listens on the configured address and serves until Shutdown.
// It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	logger.WithFields(logrus.Fields{"addr": s.addr}).Info("Serving live report")

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleFormat(r render.Renderer, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if r.Name() == "html" && req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		files, err := r.Render(s.source.Document())
		if err != nil || len(files) == 0 {
			logger.WithFields(logrus.Fields{"format": r.Name()}).Errorf("Render failed: %v", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(files[0].Data) //nolint:errcheck
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, req *http.Request) {
	doc := s.source.Document()
	if req.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc.Summary) //nolint:errcheck
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(render.SummaryTable(doc, true) + "\n")) //nolint:errcheck
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Received health check request at %s", r.URL.Path)
	w.Write([]byte("OK")) //nolint:errcheck
}
