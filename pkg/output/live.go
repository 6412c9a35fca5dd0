package output

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay before a non-urgent change is written.
const DefaultDebounce = 100 * time.Millisecond

// RenderFunc produces the current renderings of the report.
type RenderFunc func() ([]File, error)

// LiveWriter keeps the files in a Target up to date while a run progresses.
// Urgent changes (a failing test) are written immediately, everything else
// is debounced. Safe for concurrent use.
type LiveWriter struct {
	mu       sync.Mutex
	target   *Target
	render   RenderFunc
	debounce time.Duration

	dirty   bool
	timer   *time.Timer
	closed  bool
	lastErr error
	flushes int
}

// NewLiveWriter creates a LiveWriter. A zero debounce uses DefaultDebounce.
func NewLiveWriter(target *Target, render RenderFunc, debounce time.Duration) *LiveWriter {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &LiveWriter{
		target:   target,
		render:   render,
		debounce: debounce,
	}
}

// Notify records a change. Urgent changes flush immediately.
func (w *LiveWriter) Notify(urgent bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.dirty = true

	if urgent {
		w.flushLocked()
		return
	}

	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	}
}

// Flush writes pending changes now.
func (w *LiveWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = true
	w.flushLocked()
	return w.lastErr
}

// Close stops the debounce timer and writes a final rendering.
func (w *LiveWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.lastErr
	}
	w.dirty = true
	w.flushLocked()
	w.closed = true
	return w.lastErr
}

// Err returns the error of the most recent write, if any.
func (w *LiveWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Flushes returns how many times files were written.
func (w *LiveWriter) Flushes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushes
}

func (w *LiveWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.flushLocked()
}

// flushLocked writes while holding the lock.
func (w *LiveWriter) flushLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if !w.dirty {
		return
	}
	w.dirty = false

	files, err := w.render()
	if err != nil {
		w.lastErr = err
		return
	}
	w.lastErr = w.target.WriteFiles(files)
	w.flushes++
}
