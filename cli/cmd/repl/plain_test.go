package repl

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestComplete(t *testing.T) {
	s := newTestSession(t, "let width = 3;", "fn area w h => w * h")

	tests := []struct {
		line     string
		pos      int
		wantHead string
		want     []string
		wantTail string
	}{
		{"area wi", 7, "area ", []string{"width"}, ""},
		{"ar + 1", 2, "", []string{"area"}, " + 1"},
		{"1 + ", 4, "1 + ", nil, ""},
		{"{let z = 1; wid", 15, "{let z = 1; ", []string{"width"}, ""},
		{"λ + wi", 6, "λ + ", []string{"width"}, ""},
	}

	for _, tt := range tests {
		head, got, tail := complete(s, tt.line, tt.pos)
		if head != tt.wantHead || tail != tt.wantTail || !slices.Equal(got, tt.want) {
			t.Errorf("complete(%q, %d) = (%q, %v, %q), want (%q, %v, %q)",
				tt.line, tt.pos, head, got, tail, tt.wantHead, tt.want, tt.wantTail)
		}
	}
}

func TestRunPlainCommand(t *testing.T) {
	s := newTestSession(t, "let a = 1;")

	var out bytes.Buffer

	if runPlainCommand(s, &out, "list") {
		t.Error("list ended the session")
	}

	if out.String() != "let a = 1;\n" {
		t.Errorf("list output = %q", out.String())
	}

	out.Reset()

	if runPlainCommand(s, &out, "bogus") || !strings.Contains(out.String(), "unknown command") {
		t.Errorf("bogus command output = %q", out.String())
	}

	if runPlainCommand(s, &out, "reset"); len(s.Names()) != 0 {
		t.Error("reset kept definitions")
	}

	if !runPlainCommand(s, &out, "quit") {
		t.Error("quit did not end the session")
	}
}
