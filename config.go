package prompter

import (
	"errors"
	"fmt"
	"time"

	"prompter/internal/script"
)

// TypingStyle selects how Type steps deliver input.
type TypingStyle string

const (
	// TypingInstant injects the whole payload in one input event.
	TypingInstant TypingStyle = "instant"
	// TypingHuman injects one rune at a time with 25-75ms gaps.
	TypingHuman TypingStyle = "human"
)

const (
	// DefaultStepDelay paces Call and Type dispatches.
	DefaultStepDelay = 100 * time.Millisecond
	// settleDelay paces bookkeeping turns and the OnError hook.
	settleDelay = 50 * time.Millisecond
)

// ErrNoSteps is returned by Run when the configuration has no steps.
var ErrNoSteps = errors.New("session has no steps")

// LogTarget selects a trace sink. The zero value disables tracing.
type LogTarget struct {
	Kind string // LogBuffer or LogFile
	Name string // buffer name or file path
}

// Config describes one session. Steps is the only required field.
type Config struct {
	// Steps is the script to play, consumed front to back.
	Steps []Step

	// StepDelay paces Call and Type dispatches. Defaults to 100ms.
	StepDelay time.Duration

	// Typing selects instant or human-paced input delivery.
	Typing TypingStyle

	// Host receives Dispatch and Inject effects. Sessions without
	// host-facing steps may leave it nil.
	Host Host

	// Loop schedules turns. Defaults to a SerialLoop.
	Loop Loop

	// Clock stamps trace lines. Defaults to RealClock.
	Clock Clock

	// LogTarget selects the trace sink.
	LogTarget LogTarget

	// Lifecycle hooks. All optional and invoked synchronously, except
	// OnError which fires once on the loop shortly after the session ends,
	// carrying the captured error.
	BeforeStart func()
	BeforeStep  func()
	AfterStep   func()
	AfterEnd    func()
	OnError     func(error)

	// Reporter receives one Event per dispatched step.
	Reporter Reporter

	// Vars feed ${var} substitution in step payloads.
	Vars map[string]string
}

// LoadScript reads a YAML script file into a Config. Host, Loop, hooks and
// Reporter remain for the caller to fill in.
func LoadScript(path string) (Config, error) {
	f, err := script.Load(path)
	if err != nil {
		return Config{}, err
	}
	return configFromScript(f)
}

func configFromScript(f *script.File) (Config, error) {
	cfg := Config{
		StepDelay: f.Session.Delay,
		Typing:    TypingStyle(f.Session.Typing),
		LogTarget: LogTarget{Kind: f.Session.Log.Target, Name: f.Session.Log.Name},
		Vars:      f.Session.Vars,
	}
	for _, s := range f.Steps {
		step, err := stepFromScript(s)
		if err != nil {
			return Config{}, err
		}
		cfg.Steps = append(cfg.Steps, step)
	}
	return cfg, nil
}

func stepFromScript(s script.Step) (Step, error) {
	switch s.Kind {
	case script.KindCall:
		return Call(s.Arg), nil
	case script.KindLog:
		return Log(s.Arg), nil
	case script.KindType:
		return Type(s.Arg), nil
	case script.KindWait:
		return Wait(s.Wait), nil
	case script.KindAssert:
		return Assert(s.Arg), nil
	}
	return Step{}, fmt.Errorf("%w: unknown script step %q", ErrMalformedStep, s.Kind)
}
