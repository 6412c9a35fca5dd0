package event

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"gopkg.in/yaml.v3"
)

// maxLineSize bounds a single NDJSON record; stacks can be long.
const maxLineSize = 4 * 1024 * 1024

// Source yields events in stream order and io.EOF after the last one.
type Source interface {
	Next() (Event, error)
}

// record is the wire shape shared by NDJSON lines and YAML script entries.
type record struct {
	Event string `json:"event" yaml:"event"`
	Suite *Suite `json:"suite,omitempty" yaml:"suite,omitempty"`
	Test  *Test  `json:"test,omitempty" yaml:"test,omitempty"`
}

type errorRecord struct {
	Message   string `json:"message" yaml:"message"`
	Stack     string `json:"stack" yaml:"stack"`
	String    string `json:"string" yaml:"string"`
	SourceURL string `json:"sourceURL" yaml:"sourceURL"`
	Line      *int   `json:"line" yaml:"line"`
}

func (r errorRecord) testError() TestError {
	te := TestError{
		Message: r.Message,
		Stack:   r.Stack,
		String:  r.String,
	}
	if r.SourceURL != "" && r.Line != nil {
		te.Source = &SourceLocation{File: r.SourceURL, Line: *r.Line}
	}
	return te
}

// UnmarshalJSON decodes the flattened wire form.
func (e *TestError) UnmarshalJSON(data []byte) error {
	var rec errorRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*e = rec.testError()
	return nil
}

// MarshalJSON encodes the flattened wire form.
func (e TestError) MarshalJSON() ([]byte, error) {
	rec := errorRecord{Message: e.Message, Stack: e.Stack, String: e.String}
	if e.Source != nil {
		line := e.Source.Line
		rec.SourceURL = e.Source.File
		rec.Line = &line
	}
	return json.Marshal(rec)
}

// UnmarshalYAML decodes the flattened wire form.
func (e *TestError) UnmarshalYAML(value *yaml.Node) error {
	var rec errorRecord
	if err := value.Decode(&rec); err != nil {
		return err
	}
	*e = rec.testError()
	return nil
}

// toEvent validates a record. Ignored runner kinds come back with ok=false.
func (r record) toEvent() (ev Event, ok bool, err error) {
	kind := Kind(r.Event)
	switch kind {
	case KindSuiteStart, KindSuiteEnd:
		if r.Suite == nil {
			return Event{}, false, core.ErrMalformedEvent.WithMessage(fmt.Sprintf("%q event without suite", kind))
		}
		return Event{Kind: kind, Suite: r.Suite}, true, nil
	case KindTestEnd:
		if r.Test == nil {
			return Event{}, false, core.ErrMalformedEvent.WithMessage(fmt.Sprintf("%q event without test", kind))
		}
		return Event{Kind: kind, Test: r.Test}, true, nil
	}
	if kind.IsIgnored() {
		return Event{}, false, nil
	}
	return Event{}, false, core.ErrUnknownEvent.WithDetails(map[string]interface{}{"event": r.Event})
}

// StreamSource decodes NDJSON events from a reader.
type StreamSource struct {
	scanner *bufio.Scanner
	line    int
}

// NewStreamSource creates a StreamSource reading from r.
func NewStreamSource(r io.Reader) *StreamSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &StreamSource{scanner: scanner}
}

// Next returns the next event. Blank lines and ignored runner kinds are skipped.
func (s *StreamSource) Next() (Event, error) {
	for s.scanner.Scan() {
		s.line++
		data := bytes.TrimSpace(s.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return Event{}, core.ErrMalformedEvent.
				WithMessage(fmt.Sprintf("line %d: malformed event", s.line)).
				WithDetails(map[string]interface{}{"line": s.line}).
				WithCause(err)
		}

		ev, ok, err := rec.toEvent()
		if err != nil {
			return Event{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		if !ok {
			continue
		}
		return ev, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("read events: %w", err)
	}
	return Event{}, io.EOF
}

// Script is a recorded event sequence.
type Script struct {
	Name   string   `yaml:"name,omitempty"`
	Events []record `yaml:"events"`
}

// SliceSource replays a fixed list of events.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource creates a SliceSource over events.
func NewSliceSource(events ...Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event or io.EOF.
func (s *SliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// ParseScript decodes a YAML event script.
func ParseScript(data []byte) (*SliceSource, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, core.ErrMalformedEvent.WithMessage("invalid event script").WithCause(err)
	}

	events := make([]Event, 0, len(script.Events))
	for i, rec := range script.Events {
		ev, ok, err := rec.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		if ok {
			events = append(events, ev)
		}
	}
	return NewSliceSource(events...), nil
}

// LoadScript reads a YAML event script from a file.
func LoadScript(path string) (*SliceSource, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided events file
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// SuiteStart builds a suite start event.
func SuiteStart(title string) Event {
	return Event{Kind: KindSuiteStart, Suite: &Suite{Title: title}}
}

// SuiteEnd builds a suite end event.
func SuiteEnd(title string) Event {
	return Event{Kind: KindSuiteEnd, Suite: &Suite{Title: title}}
}

// TestEnd builds a test end event.
func TestEnd(test Test) Event {
	return Event{Kind: KindTestEnd, Test: &test}
}
