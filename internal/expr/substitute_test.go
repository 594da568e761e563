package expr

import (
	"strings"
	"testing"
)

func TestSubstitute_Variables(t *testing.T) {
	vars := map[string]string{"user": "alice", "host": "example.com"}

	got, err := Substitute("login ${user}@${host}", vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "login alice@example.com" {
		t.Errorf("expected substituted text, got %q", got)
	}
}

func TestSubstitute_NoPlaceholders(t *testing.T) {
	got, err := Substitute("plain text with $dollar", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain text with $dollar" {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestSubstitute_EnvVariable(t *testing.T) {
	t.Setenv("PROMPTER_TEST_USER", "bob")

	got, err := Substitute("hello ${env:PROMPTER_TEST_USER}", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello bob" {
		t.Errorf("expected env substitution, got %q", got)
	}
}

func TestSubstitute_MissingVariable(t *testing.T) {
	_, err := Substitute("hello ${nobody}", map[string]string{"user": "alice"})
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	if !strings.Contains(err.Error(), `"nobody"`) {
		t.Errorf("expected error to name the variable, got %v", err)
	}
}

func TestSubstitute_MissingEnv(t *testing.T) {
	_, err := Substitute("${env:PROMPTER_DEFINITELY_UNSET}", nil)
	if err == nil {
		t.Fatal("expected error for unset env var")
	}
}

func TestSubstitute_MultipleErrorsJoined(t *testing.T) {
	_, err := Substitute("${a} ${b}", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `"a"`) || !strings.Contains(msg, `"b"`) {
		t.Errorf("expected both missing variables in error, got %v", err)
	}
}
