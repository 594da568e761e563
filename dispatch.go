package prompter

import (
	"errors"
	"fmt"

	"prompter/internal/expr"
)

// errNoHost reports a host-facing step in a session configured without one.
var errNoHost = errors.New("no host configured")

// dispatch pops and executes the next step. The counter moves before any
// effect runs, and the next turn is scheduled before the effect for every
// variant except Wait (whose duration replaces the pacing delay) and human
// typing (where the typist schedules on completion), so a blocking or
// re-entrant host command can never stall the session.
func (s *Session) dispatch() {
	s.mu.Lock()
	step := s.steps[0]
	s.steps = s.steps[1:]
	s.counter++
	n := s.counter
	started := s.start
	s.mu.Unlock()

	s.trace.log(n, "STEP "+step.String())
	if s.cfg.Reporter != nil {
		s.cfg.Reporter.Report(Event{
			Seq:  n,
			Kind: step.Kind,
			Step: step.String(),
			At:   s.clock.Since(started),
		})
	}

	switch step.Kind {
	case KindCall:
		s.scheduleNext()
		s.record(s.runCall(step))
	case KindLog:
		s.scheduleNext()
		s.record(s.runLog(step, n))
	case KindType:
		s.runType(step)
	case KindWait:
		s.scheduleTurn(step.Wait)
	case KindAssert:
		s.scheduleNext()
		s.record(s.runAssert(step))
	default:
		s.scheduleNext()
		s.record(fmt.Errorf("%w: %s", ErrMalformedStep, step))
	}
}

func (s *Session) runCall(step Step) error {
	name, err := expr.Substitute(step.Name, s.cfg.Vars)
	if err != nil {
		return err
	}
	if s.cfg.Host == nil {
		return errNoHost
	}
	return guard(func() error { return s.cfg.Host.Dispatch(name) })
}

func (s *Session) runLog(step Step, n int) error {
	text, err := expr.Substitute(step.Text, s.cfg.Vars)
	if err != nil {
		return err
	}
	value, err := expr.Value(text, s.snapshot)
	if err != nil {
		return err
	}
	s.trace.log(n, "LOG "+value)
	return nil
}

func (s *Session) runType(step Step) {
	keys, err := expr.Substitute(step.Text, s.cfg.Vars)
	if err != nil {
		s.scheduleNext()
		s.record(err)
		return
	}
	if s.cfg.Typing == TypingHuman {
		newTypist(s.loop.CallLater, s.inject, s.record, s.scheduleNext).run([]rune(keys))
		return
	}
	s.scheduleNext()
	s.record(s.inject(keys))
}

func (s *Session) runAssert(step Step) error {
	ok, err := s.evalAssert(step)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{Form: step.Text}
	}
	return nil
}

func (s *Session) evalAssert(step Step) (bool, error) {
	if step.Check != nil {
		var ok bool
		err := guard(func() error {
			var checkErr error
			ok, checkErr = step.Check()
			return checkErr
		})
		return ok, err
	}
	form, err := expr.Substitute(step.Text, s.cfg.Vars)
	if err != nil {
		return false, err
	}
	return expr.Cond(form, s.snapshot)
}

func (s *Session) inject(keys string) error {
	if s.cfg.Host == nil {
		return errNoHost
	}
	return guard(func() error { return s.cfg.Host.Inject(keys) })
}

// snapshot fetches host state for $.path expressions.
func (s *Session) snapshot() ([]byte, error) {
	p, ok := s.cfg.Host.(Prober)
	if !ok {
		return nil, errors.New("host does not expose state")
	}
	return p.Snapshot()
}

// guard converts a panic in host or assertion code into an error, so a
// misbehaving command cannot take down the loop.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
