package prompter

import (
	"fmt"
	"io"
	"time"

	"prompter/internal/tracelog"
)

// Log sink kinds for Config.LogTarget.
const (
	LogBuffer = tracelog.KindBuffer
	LogFile   = tracelog.KindFile
)

// ErrUnknownLogTarget is returned by Run for a LogTarget kind no sink
// implements.
var ErrUnknownLogTarget = tracelog.ErrUnknownTarget

// LogContents returns the accumulated text of a named trace buffer. Buffers
// outlive their sessions, so traces stay readable after playback ends.
func LogContents(name string) string {
	return tracelog.Contents(name)
}

// trace writes session trace lines. A nil trace discards everything, so
// callers never check whether logging is configured.
type trace struct {
	w     io.WriteCloser
	clock Clock
	start time.Time
}

// newTrace resolves a LogTarget into a sink. A zero target yields a nil
// trace.
func newTrace(target LogTarget, clock Clock) (*trace, error) {
	if target == (LogTarget{}) {
		return nil, nil
	}
	w, err := tracelog.Open(target.Kind, target.Name)
	if err != nil {
		return nil, err
	}
	return &trace{w: w, clock: clock}, nil
}

func (t *trace) begin(start time.Time) {
	if t == nil {
		return
	}
	t.start = start
}

// log writes one line: elapsed milliseconds since start, step counter,
// message.
func (t *trace) log(counter int, msg string) {
	if t == nil {
		return
	}
	ms := t.clock.Since(t.start).Milliseconds()
	fmt.Fprintf(t.w, "%06d %03d %s\n", ms, counter, msg)
}

func (t *trace) close() {
	if t == nil {
		return
	}
	t.w.Close()
}
