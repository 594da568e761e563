package prompter

import (
	"sync"
	"time"
)

type sessionState int

const (
	stateNotStarted sessionState = iota
	stateRunning
	stateFinalizing
	stateEnded
)

// Session is a single playback of a step script. Create one with Run.
// Sessions are not reusable; run a new one for each playback.
type Session struct {
	cfg   Config
	loop  Loop
	clock Clock
	trace *trace

	mu         sync.Mutex
	state      sessionState
	steps      []Step
	counter    int
	start      time.Time
	pendingErr error
	finalErr   error

	done chan struct{}
}

// Run validates cfg, fires the BeforeStart hook, schedules the first turn
// and returns. The session then advances on cfg.Loop; Run never blocks on
// playback. The only synchronous failures are an empty script and an
// unusable log target.
func Run(cfg Config) (*Session, error) {
	if len(cfg.Steps) == 0 {
		return nil, ErrNoSteps
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = DefaultStepDelay
	}
	if cfg.Typing == "" {
		cfg.Typing = TypingInstant
	}
	if cfg.Loop == nil {
		cfg.Loop = &SerialLoop{}
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}

	tr, err := newTrace(cfg.LogTarget, cfg.Clock)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:   cfg,
		loop:  cfg.Loop,
		clock: cfg.Clock,
		trace: tr,
		steps: append([]Step(nil), cfg.Steps...),
		done:  make(chan struct{}),
	}
	s.start = s.clock.Now()
	s.trace.begin(s.start)

	fire(cfg.BeforeStart)
	s.state = stateRunning
	s.scheduleNext()
	return s, nil
}

// fire invokes a lifecycle hook if one is set.
func fire(fn func()) {
	if fn != nil {
		fn()
	}
}

// Counter reports how many steps have been dispatched so far. It reads 0
// again once the session has ended.
func (s *Session) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Err reports the captured failure, if any, once the session has ended.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalErr
}

// Done is closed when finalization completes. The OnError hook may still
// fire shortly afterwards.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// turn evaluates the decision policy: failure, exhaustion, or dispatch.
// Every scheduled turn lands here first, so an error recorded after the turn
// was already scheduled is still observed before any further step runs.
func (s *Session) turn() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	err := s.pendingErr
	n := s.counter
	empty := len(s.steps) == 0
	if err != nil || empty {
		s.state = stateFinalizing
	}
	s.mu.Unlock()

	if err != nil {
		s.trace.log(n, "ERROR "+err.Error())
		s.finalize()
		if hook := s.cfg.OnError; hook != nil {
			s.loop.CallLater(settleDelay, func() { hook(err) })
		}
		return
	}

	if empty {
		fire(s.cfg.AfterStep)
		s.loop.CallLater(s.cfg.StepDelay, s.finalize)
		return
	}

	if n > 0 {
		fire(s.cfg.AfterStep)
	}
	fire(s.cfg.BeforeStep)
	s.dispatch()
}

// finalize runs exactly once per session: it logs END with the pre-reset
// counter, captures the failure, resets the counters, fires AfterEnd and
// releases Done.
func (s *Session) finalize() {
	s.mu.Lock()
	if s.state == stateEnded {
		s.mu.Unlock()
		return
	}
	n := s.counter
	s.finalErr = s.pendingErr
	s.counter = 0
	s.start = time.Time{}
	s.pendingErr = nil
	s.state = stateEnded
	s.mu.Unlock()

	s.trace.log(n, "END")
	s.trace.close()
	fire(s.cfg.AfterEnd)
	close(s.done)
}

// scheduleNext schedules a turn after the pacing delay for whatever step is
// next: steps that simulate user actions (Call, Type) get the full step
// delay, the rest settle quickly.
func (s *Session) scheduleNext() {
	s.scheduleTurn(s.nextDelay())
}

func (s *Session) scheduleTurn(d time.Duration) {
	s.loop.CallLater(d, s.turn)
}

func (s *Session) nextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) > 0 {
		switch s.steps[0].Kind {
		case KindCall, KindType:
			return s.cfg.StepDelay
		}
	}
	return settleDelay
}

// record captures the first out-of-band error; later ones are dropped so the
// failure reported is the one that started the collapse.
func (s *Session) record(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.pendingErr == nil {
		s.pendingErr = err
	}
	s.mu.Unlock()
}
