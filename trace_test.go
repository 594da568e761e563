package prompter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTrace_ZeroTargetDisablesTracing(t *testing.T) {
	tr, err := newTrace(LogTarget{}, RealClock{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr != nil {
		t.Fatal("expected nil trace for the zero target")
	}

	// All operations must be safe on a nil trace.
	tr.begin(time.Now())
	tr.log(1, "STEP (Call doThing)")
	tr.close()
}

func TestTrace_UnknownTarget(t *testing.T) {
	_, err := newTrace(LogTarget{Kind: "syslog", Name: "x"}, RealClock{})
	if !errors.Is(err, ErrUnknownLogTarget) {
		t.Errorf("expected ErrUnknownLogTarget, got %v", err)
	}
}

func TestTrace_LineFormat(t *testing.T) {
	loop := NewFakeLoop(time.Now())
	tr, err := newTrace(LogTarget{Kind: LogBuffer, Name: t.Name()}, loop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.begin(loop.Now())

	tr.log(1, `STEP (Log "a")`)
	loop.Advance(1234 * time.Millisecond)
	tr.log(12, "END")
	tr.close()

	want := "000000 001 STEP (Log \"a\")\n001234 012 END\n"
	if got := LogContents(t.Name()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTrace_FileTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	loop := NewFakeLoop(time.Now())

	tr, err := newTrace(LogTarget{Kind: LogFile, Name: path}, loop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.begin(loop.Now())
	loop.Advance(50 * time.Millisecond)
	tr.log(1, "STEP (Call greet)")
	tr.close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading trace file: %v", err)
	}
	if string(data) != "000050 001 STEP (Call greet)\n" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestTrace_CounterAndElapsedWiden(t *testing.T) {
	loop := NewFakeLoop(time.Now())
	tr, err := newTrace(LogTarget{Kind: LogBuffer, Name: t.Name()}, loop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.begin(loop.Now())

	loop.Advance(20 * time.Minute)
	tr.log(1500, "END")
	tr.close()

	if got := LogContents(t.Name()); !strings.HasPrefix(got, "1200000 1500 END") {
		t.Errorf("expected fields to widen past their padding, got %q", got)
	}
}
