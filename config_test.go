package prompter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"prompter/internal/script"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScript(t *testing.T) {
	path := writeScript(t, `
session:
  delay: 200ms
  typing: human
  log:
    target: buffer
    name: demo
  vars:
    user: ada
steps:
  - call: greet
  - type: "hi ${user}\r"
  - wait: 0.2
  - assert: $.lines == 1
  - log: $.last
`)

	cfg, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.StepDelay != 200*time.Millisecond {
		t.Errorf("expected delay 200ms, got %v", cfg.StepDelay)
	}
	if cfg.Typing != TypingHuman {
		t.Errorf("expected human typing, got %q", cfg.Typing)
	}
	if cfg.LogTarget.Kind != LogBuffer || cfg.LogTarget.Name != "demo" {
		t.Errorf("unexpected log target: %+v", cfg.LogTarget)
	}
	if cfg.Vars["user"] != "ada" {
		t.Errorf("unexpected vars: %v", cfg.Vars)
	}

	want := []Step{
		Call("greet"),
		Type("hi ${user}\r"),
		Wait(200 * time.Millisecond),
		Assert("$.lines == 1"),
		Log("$.last"),
	}
	if len(cfg.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(cfg.Steps))
	}
	for i, w := range want {
		got := cfg.Steps[i]
		if got.Kind != w.Kind || got.Name != w.Name || got.Text != w.Text || got.Wait != w.Wait {
			t.Errorf("step %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestLoadScript_Minimal(t *testing.T) {
	path := writeScript(t, "steps:\n  - log: hello\n")

	cfg, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StepDelay != 0 {
		t.Errorf("expected unset delay to stay zero for Run to default, got %v", cfg.StepDelay)
	}
	if cfg.LogTarget != (LogTarget{}) {
		t.Errorf("expected zero log target, got %+v", cfg.LogTarget)
	}
	if len(cfg.Steps) != 1 || cfg.Steps[0].Kind != KindLog {
		t.Errorf("unexpected steps: %+v", cfg.Steps)
	}
}

func TestLoadScript_Missing(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadScript_BadStep(t *testing.T) {
	path := writeScript(t, "steps:\n  - press: enter\n")
	_, err := LoadScript(path)
	if err == nil {
		t.Error("expected an error for an unknown step kind")
	}
}

func TestLoadedScriptRuns(t *testing.T) {
	path := writeScript(t, `
steps:
  - call: greet
  - assert: "true"
`)

	cfg, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	loop := NewFakeLoop(time.Now())
	host := &fakeHost{}
	cfg.Host = host
	cfg.Loop = loop

	sess, err := Run(cfg)
	if err != nil {
		t.Fatal(err)
	}
	loop.Drain()

	if sess.Err() != nil {
		t.Errorf("unexpected session error: %v", sess.Err())
	}
	if len(host.dispatched) != 1 || host.dispatched[0] != "greet" {
		t.Errorf("expected greet dispatched, got %v", host.dispatched)
	}
}

func TestStepFromScript_UnknownKind(t *testing.T) {
	f := &script.File{Steps: []script.Step{{Kind: "press", Arg: "enter"}}}
	_, err := configFromScript(f)
	if !errors.Is(err, ErrMalformedStep) {
		t.Errorf("expected ErrMalformedStep, got %v", err)
	}
}
