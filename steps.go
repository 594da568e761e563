package prompter

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies a step variant.
type Kind string

const (
	KindCall   Kind = "Call"
	KindLog    Kind = "Log"
	KindType   Kind = "Type"
	KindWait   Kind = "Wait"
	KindAssert Kind = "Assert"
)

// ErrMalformedStep indicates a step whose kind the executor does not
// recognize.
var ErrMalformedStep = errors.New("malformed step")

// Step is one scripted action. Build steps with the constructors; the zero
// value is malformed and fails the session when dispatched.
type Step struct {
	Kind Kind
	Name string        // Call: command name
	Text string        // Log: message or expression; Type: keys; Assert: condition
	Wait time.Duration // Wait: pure delay
	// Check is a programmatic Assert condition. When set it is evaluated
	// instead of Text; Text still names the assertion in traces.
	Check func() (bool, error)
}

// Call invokes the named host command.
func Call(name string) Step { return Step{Kind: KindCall, Name: name} }

// Log evaluates text (a literal, a ${var} template, or a $.path query) and
// writes the value to the trace.
func Log(text string) Step { return Step{Kind: KindLog, Text: text} }

// Type feeds keys to the host as simulated input, one rune per input event.
func Type(keys string) Step { return Step{Kind: KindType, Text: keys} }

// Wait pauses the session for exactly d, replacing the configured pacing.
func Wait(d time.Duration) Step { return Step{Kind: KindWait, Wait: d} }

// Assert evaluates a condition expression against the host snapshot.
func Assert(expr string) Step { return Step{Kind: KindAssert, Text: expr} }

// AssertFunc evaluates fn; form names the condition in traces and failure
// messages.
func AssertFunc(form string, fn func() (bool, error)) Step {
	return Step{Kind: KindAssert, Text: form, Check: fn}
}

// String renders the raw step form used in trace lines.
func (s Step) String() string {
	switch s.Kind {
	case KindCall:
		return fmt.Sprintf("(Call %s)", s.Name)
	case KindLog:
		return fmt.Sprintf("(Log %q)", s.Text)
	case KindType:
		return fmt.Sprintf("(Type %q)", s.Text)
	case KindWait:
		return "(Wait " + strconv.FormatFloat(s.Wait.Seconds(), 'f', -1, 64) + ")"
	case KindAssert:
		return fmt.Sprintf("(Assert %s)", s.Text)
	default:
		return fmt.Sprintf("(%s)", string(s.Kind))
	}
}

// AssertionError reports a condition that evaluated false.
type AssertionError struct {
	Form string
}

func (e *AssertionError) Error() string {
	return "Expectation failed: " + e.Form
}
