// Package ptyhost drives a real terminal program under a pseudo-terminal so
// sessions can play against it.
package ptyhost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"golang.org/x/time/rate"
)

// outputCap bounds the retained output tail used for snapshots.
const outputCap = 64 * 1024

// killGrace is how long Close waits between Interrupt and Kill.
const killGrace = 2 * time.Second

// Options tunes a pty host.
type Options struct {
	// BytesPerSec paces injected writes so fast playback does not land in
	// the child's paste buffer. 0 disables pacing.
	BytesPerSec int
	// Echo mirrors child output to this writer as it arrives.
	Echo io.Writer
}

// Host runs a child process under a pty. It implements the session Host and
// Prober interfaces: Dispatch types a command line, Inject types raw keys,
// Snapshot reports the retained output tail.
type Host struct {
	cmd     *exec.Cmd
	ptyFile *os.File
	limiter *rate.Limiter

	wmu sync.Mutex // serializes pty writes

	mu     sync.Mutex
	out    []byte
	rdErr  error
	closed chan struct{}
}

// Start launches argv under a new pty and begins draining its output.
func Start(argv []string, opts Options) (*Host, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("starting %s under pty: %w", argv[0], err)
	}

	h := &Host{cmd: cmd, ptyFile: f, closed: make(chan struct{})}
	if opts.BytesPerSec > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(opts.BytesPerSec), opts.BytesPerSec)
	}
	go h.read(opts.Echo)
	return h, nil
}

// read drains the pty until the child exits, keeping a bounded tail.
func (h *Host) read(echo io.Writer) {
	buf := make([]byte, 4096)
	for {
		n, err := h.ptyFile.Read(buf)
		if n > 0 {
			if echo != nil {
				echo.Write(buf[:n])
			}
			h.mu.Lock()
			h.out = append(h.out, buf[:n]...)
			if len(h.out) > outputCap {
				h.out = h.out[len(h.out)-outputCap:]
			}
			h.mu.Unlock()
		}
		if err != nil {
			// Linux reports EIO once the child side is gone.
			h.mu.Lock()
			h.rdErr = err
			h.mu.Unlock()
			close(h.closed)
			return
		}
	}
}

// Dispatch types the command name followed by a carriage return.
func (h *Host) Dispatch(name string) error {
	return h.write(name + "\r")
}

// Inject types raw keys, paced when a rate limit is configured.
func (h *Host) Inject(keys string) error {
	return h.write(keys)
}

func (h *Host) write(s string) error {
	h.wmu.Lock()
	defer h.wmu.Unlock()

	if h.limiter == nil {
		if _, err := io.WriteString(h.ptyFile, s); err != nil {
			return fmt.Errorf("writing to pty: %w", err)
		}
		return nil
	}

	data := []byte(s)
	burst := h.limiter.Burst()
	for len(data) > 0 {
		n := len(data)
		if n > burst {
			n = burst
		}
		if err := h.limiter.WaitN(context.Background(), n); err != nil {
			return err
		}
		if _, err := h.ptyFile.Write(data[:n]); err != nil {
			return fmt.Errorf("writing to pty: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// Snapshot reports host state as JSON for $.path expressions.
func (h *Host) Snapshot() ([]byte, error) {
	running := true
	select {
	case <-h.closed:
		running = false
	default:
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return json.Marshal(map[string]any{
		"output":  string(h.out),
		"running": running,
	})
}

// Output returns the retained tail of child output.
func (h *Host) Output() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return string(h.out)
}

// Close stops the child: interrupt first, kill after a grace period, then
// reap it and release the pty.
func (h *Host) Close() error {
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Signal(os.Interrupt)
		select {
		case <-h.closed:
		case <-time.After(killGrace):
			_ = h.cmd.Process.Kill()
		}
	}
	err := h.cmd.Wait()
	h.ptyFile.Close()
	return err
}
