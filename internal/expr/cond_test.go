package expr

import (
	"strings"
	"testing"
)

const condBody = `{
	"count": 3,
	"score": 2.5,
	"name": "alice",
	"flag": true,
	"off": false,
	"empty": "",
	"last": "hi alice",
	"output": "> hi\nyou said: hi"
}`

func TestCond_Table(t *testing.T) {
	snap := staticSnap(condBody)

	cases := []struct {
		form string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"$.flag", true},
		{"$.off", false},
		{"$.empty", false},
		{"$.missing", false},
		{"$.count", true},
		{"$.count == 3", true},
		{"$.count != 3", false},
		{"$.count < 4", true},
		{"$.count <= 3", true},
		{"$.count > 3", false},
		{"$.count >= 3", true},
		{"$.count>2", true},
		{"$.score > 2", true},
		{"$.score >= 2.5", true},
		{`$.name == "alice"`, true},
		{`$.name != "bob"`, true},
		{`$.last == "hi alice"`, true},
		{`$.output contains "you said: hi"`, true},
		{`$.output contains "nope"`, false},
		{`"alice" == $.name`, true},
		{"2 < 10", true},
	}

	for _, tc := range cases {
		got, err := Cond(tc.form, snap)
		if err != nil {
			t.Fatalf("Cond(%q): unexpected error: %v", tc.form, err)
		}
		if got != tc.want {
			t.Errorf("Cond(%q) = %v, expected %v", tc.form, got, tc.want)
		}
	}
}

func TestCond_StringCompareWhenNotBothNumeric(t *testing.T) {
	// "10" < "9" lexically even though 10 > 9 numerically.
	got, err := Cond(`"10" < "9"`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected lexical comparison for quoted terms")
	}
}

func TestCond_MissingPathInComparison(t *testing.T) {
	_, err := Cond("$.missing == 1", staticSnap(condBody))
	if err == nil {
		t.Fatal("expected error for missing comparison term")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCond_BadForm(t *testing.T) {
	for _, form := range []string{"", "banana", "=="} {
		if _, err := Cond(form, nil); err == nil {
			t.Errorf("Cond(%q): expected error", form)
		}
	}
}

func TestCond_QueryNeedsSnapshot(t *testing.T) {
	if _, err := Cond("$.a == 1", nil); err == nil {
		t.Fatal("expected error when a $.path term has no snapshot")
	}
}

func TestCond_OperatorInsideQuotesIgnored(t *testing.T) {
	got, err := Cond(`$.last == "hi alice"`, staticSnap(`{"last":"hi alice"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected match")
	}

	// An operator character inside the quoted term must not split the form.
	got, err = Cond(`$.msg == "a < b"`, staticSnap(`{"msg":"a < b"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected quoted operator to be treated as text")
	}
}
