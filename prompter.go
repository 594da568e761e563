// Package prompter plays back scripted interactive sessions against a live,
// event-loop-driven host application.
//
// A session is a sequence of steps (command invocations, simulated typing,
// waits, assertions, log statements) executed one at a time with configurable
// pacing, so interactive behavior can be demonstrated or verified without a
// human at the keyboard. All scheduling goes through a Loop; the core never
// blocks and never spawns goroutines of its own.
package prompter

import "time"

// Host is the interactive application a session drives.
//
// Dispatch invokes a named interactive command. It may start long-running
// work, but it must not block indefinitely waiting for input that later steps
// will inject. Inject feeds simulated keyboard input to the host.
type Host interface {
	Dispatch(name string) error
	Inject(keys string) error
}

// Prober is an optional Host extension that exposes observable state as JSON.
// Log and Assert expressions query it with $.path selectors.
type Prober interface {
	Snapshot() ([]byte, error)
}

// Event describes one dispatched step for external observers.
type Event struct {
	Seq  int           // dispatch counter, 1-based
	Kind Kind
	Step string        // raw step form, e.g. (Call doThing)
	At   time.Duration // elapsed since session start
}

// Reporter receives an Event for every dispatched step.
type Reporter interface {
	Report(Event)
}
