// Package report records dispatched steps and renders a post-run summary.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"prompter"
)

// Recorder collects step events during playback. Thread-safe.
type Recorder struct {
	mu      sync.Mutex
	events  []prompter.Event
	started time.Time
	ended   time.Time
}

// NewRecorder creates a Recorder; the run duration is measured from now.
func NewRecorder() *Recorder {
	return &Recorder{started: time.Now()}
}

// Report implements prompter.Reporter.
func (r *Recorder) Report(e prompter.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Close marks the end of the run.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = time.Now()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []prompter.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]prompter.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Duration returns the run duration: start to Close, or start to now while
// the run is still going.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ended.IsZero() {
		return r.ended.Sub(r.started)
	}
	return time.Since(r.started)
}

// WriteSummary renders a short run summary: step counts per kind and the
// outcome.
func WriteSummary(w io.Writer, r *Recorder, err error) {
	events := r.Events()
	counts := make(map[prompter.Kind]int)
	for _, e := range events {
		counts[e.Kind]++
	}

	fmt.Fprintf(w, "Session: %d steps in %s\n", len(events), FormatDuration(r.Duration()))
	order := []prompter.Kind{
		prompter.KindCall,
		prompter.KindLog,
		prompter.KindType,
		prompter.KindWait,
		prompter.KindAssert,
	}
	for _, k := range order {
		if counts[k] > 0 {
			fmt.Fprintf(w, "  %-6s %d\n", k, counts[k])
		}
	}
	if err != nil {
		fmt.Fprintf(w, "FAILED: %v\n", err)
	} else {
		fmt.Fprintln(w, "OK")
	}
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
