// Package tracelog provides the sinks session traces write to: named
// in-process buffers and append-only files.
package tracelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Target kinds.
const (
	KindBuffer = "buffer"
	KindFile   = "file"
)

// ErrUnknownTarget indicates a log target kind no sink implements.
var ErrUnknownTarget = errors.New("unknown log target kind")

// Open resolves a target kind and name into a writable sink. Buffer sinks
// share a process-wide registry keyed by name; file sinks append.
func Open(kind, name string) (io.WriteCloser, error) {
	switch kind {
	case KindBuffer:
		return buffers.open(name), nil
	case KindFile:
		f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, kind)
}

// Contents returns the accumulated text of a named buffer.
func Contents(name string) string {
	return buffers.open(name).String()
}

// Reset clears a named buffer.
func Reset(name string) {
	buffers.open(name).reset()
}

// registry holds named buffers for the life of the process, so traces stay
// readable after their session ends and sessions can append to a shared
// buffer.
type registry struct {
	mu   sync.Mutex
	bufs map[string]*Buffer
}

var buffers = &registry{bufs: make(map[string]*Buffer)}

func (r *registry) open(name string) *Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bufs[name]
	if !ok {
		b = &Buffer{}
		r.bufs[name] = b
	}
	return b
}

// Buffer is a thread-safe in-memory sink.
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	return len(p), nil
}

// Close is a no-op; buffers stay readable after their writer is done.
func (b *Buffer) Close() error { return nil }

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

func (b *Buffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
}
