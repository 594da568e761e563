// Package testhost provides a small in-process interactive application for
// exercising sessions in tests and demos.
package testhost

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Command is an interactive command the host can dispatch. It returns output
// to append to the transcript.
type Command func(h *Host) (string, error)

// Host is a line-oriented interactive application. Injected input
// accumulates until a carriage return or newline completes a line; commands
// read completed lines and write output. All methods are thread-safe.
type Host struct {
	mu      sync.Mutex
	cmds    map[string]Command
	pending []rune
	lines   []string
	output  []string
	bells   int
}

// New creates a Host with the built-in commands registered: greet, echo,
// bell and fail.
func New() *Host {
	h := &Host{cmds: make(map[string]Command)}
	h.Register("greet", func(h *Host) (string, error) {
		return "hello! type something and i will echo it", nil
	})
	h.Register("echo", func(h *Host) (string, error) {
		line, ok := h.LastLine()
		if !ok {
			return "nothing to echo", nil
		}
		return "you said: " + line, nil
	})
	h.Register("bell", func(h *Host) (string, error) {
		h.mu.Lock()
		h.bells++
		h.mu.Unlock()
		return "ding", nil
	})
	h.Register("fail", func(h *Host) (string, error) {
		return "", fmt.Errorf("the fail command always fails")
	})
	return h
}

// Register adds or replaces a command.
func (h *Host) Register(name string, cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cmds[name] = cmd
}

// Dispatch runs a named command and appends its output to the transcript.
func (h *Host) Dispatch(name string) error {
	h.mu.Lock()
	cmd, ok := h.cmds[name]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	// Commands run unlocked so they can use the accessors.
	out, err := cmd(h)
	if err != nil {
		return err
	}
	if out != "" {
		h.mu.Lock()
		h.output = append(h.output, out)
		h.mu.Unlock()
	}
	return nil
}

// Inject feeds keys to the host; CR or LF completes the pending line and
// echoes it into the transcript.
func (h *Host) Inject(keys string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range keys {
		if r == '\r' || r == '\n' {
			line := string(h.pending)
			h.pending = h.pending[:0]
			h.lines = append(h.lines, line)
			h.output = append(h.output, "> "+line)
			continue
		}
		h.pending = append(h.pending, r)
	}
	return nil
}

// Snapshot reports host state as JSON for Log and Assert expressions.
func (h *Host) Snapshot() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	last := ""
	if len(h.lines) > 0 {
		last = h.lines[len(h.lines)-1]
	}
	return json.Marshal(map[string]any{
		"output": strings.Join(h.output, "\n"),
		"last":   last,
		"lines":  len(h.lines),
		"bells":  h.bells,
	})
}

// LastLine returns the most recently completed input line.
func (h *Host) LastLine() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.lines) == 0 {
		return "", false
	}
	return h.lines[len(h.lines)-1], true
}

// Output returns the transcript as one string.
func (h *Host) Output() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return strings.Join(h.output, "\n")
}

// OutputLines returns a copy of the transcript lines.
func (h *Host) OutputLines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.output))
	copy(out, h.output)
	return out
}
