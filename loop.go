package prompter

import (
	"sync"
	"time"
)

// Loop schedules work onto the host application's event loop.
//
// CallLater arranges for fn to run after roughly d. Implementations give no
// exact-timing guarantee and no way to cancel. Callbacks must never overlap;
// that serialization is the only mutual exclusion the session core relies on.
type Loop interface {
	CallLater(d time.Duration, fn func())
}

// SerialLoop is a Loop backed by the process clock. A mutex guarantees that
// callbacks never overlap even when timers expire together.
type SerialLoop struct {
	mu sync.Mutex
}

func (l *SerialLoop) CallLater(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		fn()
	})
}

// FakeLoop is a Loop and Clock driven by a virtual clock, for tests.
// Timers fire in (due time, schedule order) during Advance or Drain, with the
// clock jumping to each timer's due time first. Callbacks may schedule
// further timers and those participate in the same run.
type FakeLoop struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []fakeTimer
}

type fakeTimer struct {
	due time.Time
	seq int
	fn  func()
}

func NewFakeLoop(start time.Time) *FakeLoop {
	return &FakeLoop{now: start}
}

func (f *FakeLoop) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeLoop) Since(t time.Time) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.Sub(t)
}

func (f *FakeLoop) CallLater(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.timers = append(f.timers, fakeTimer{due: f.now.Add(d), seq: f.seq, fn: fn})
}

// Pending reports how many timers are waiting.
func (f *FakeLoop) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Advance moves the virtual clock forward by d, firing timers that come due.
func (f *FakeLoop) Advance(d time.Duration) {
	f.mu.Lock()
	deadline := f.now.Add(d)
	f.mu.Unlock()

	for {
		t, ok := f.pop(deadline, true)
		if !ok {
			break
		}
		t.fn()
	}

	f.mu.Lock()
	if deadline.After(f.now) {
		f.now = deadline
	}
	f.mu.Unlock()
}

// Drain fires timers in order until none remain. Sessions schedule a bounded
// number of turns, so Drain terminates once playback is over.
func (f *FakeLoop) Drain() {
	for {
		t, ok := f.pop(time.Time{}, false)
		if !ok {
			return
		}
		t.fn()
	}
}

// pop removes the earliest timer, bounded by deadline when bounded is set,
// and advances the clock to its due time. The mutex is not held while the
// caller runs the callback, so callbacks can schedule freely.
func (f *FakeLoop) pop(deadline time.Time, bounded bool) (fakeTimer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	best := -1
	for i, t := range f.timers {
		if bounded && t.due.After(deadline) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := f.timers[best]
		if t.due.Before(b.due) || (t.due.Equal(b.due) && t.seq < b.seq) {
			best = i
		}
	}
	if best == -1 {
		return fakeTimer{}, false
	}

	t := f.timers[best]
	f.timers = append(f.timers[:best], f.timers[best+1:]...)
	if t.due.After(f.now) {
		f.now = t.due
	}
	return t, true
}
