package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/konst/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   lang.Identifier
		wantIndex  int
		wantInCall bool
	}{
		{"typing_name", "add", 3, "", 0, false},
		{"first_argument_pending", "add ", 4, "add", 0, true},
		{"typing_first_argument", "add 1", 5, "add", 0, true},
		{"second_argument_pending", "add 1 ", 6, "add", 1, true},
		{"typing_second_argument", "add 1 2", 7, "add", 1, true},
		{"cursor_mid_line", "add 1 2", 4, "add", 0, true},
		{"after_operator", "x + add 1 ", 10, "add", 1, true},
		{"operator_ends_call", "add 1 2 * ", 10, "", 0, false},
		{"in_block", "{let a = 1; add a ", 18, "add", 1, true},
		{"binding_value", "let x = add 1 ", 14, "add", 1, true},
		{"function_body", "fn f a => add a ", 16, "add", 1, true},
		{"keyword", "let x", 5, "", 0, false},
		{"number", "1 2", 3, "", 0, false},
		{"empty", "", 0, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got,
					tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	s := newTestSession(t, "let v = 1;", "fn add a b => a + b")

	params, body, ok := getSignature(s, "add")
	if !ok {
		t.Fatal("getSignature(add) not found")
	}

	if len(params) != 2 || params[0] != "a" || params[1] != "b" {
		t.Errorf("params = %v, want [a b]", params)
	}

	if body.String() != "a + b" {
		t.Errorf("body = %q, want %q", body.String(), "a + b")
	}

	if _, _, ok := getSignature(s, "v"); ok {
		t.Error("getSignature(v) found a binding")
	}

	if _, _, ok := getSignature(s, "nope"); ok {
		t.Error("getSignature(nope) found an undefined name")
	}
}

func TestRenderSignatureHint(t *testing.T) {
	params := []lang.Identifier{"a", "b"}
	body := lang.OperationExpr(lang.BindingExpr("a"), lang.OpAdd, lang.BindingExpr("b"))

	for _, idx := range []int{0, 1, 5} {
		got := renderSignatureHint("add", params, body, idx)
		if !strings.Contains(got, "add") || !strings.Contains(got, "a + b") {
			t.Errorf("renderSignatureHint(%d) = %q", idx, got)
		}
	}
}
