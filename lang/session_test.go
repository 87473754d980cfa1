package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestSession_Eval(t *testing.T) {
	s := NewSession()

	steps := []struct {
		line string
		want string
	}{
		{"let x = 114;", ""},
		{"x", "114"},
		{"let y = 514;", ""},
		{"x + y", "628"},
		{"let x = 1;", ""},
		{"x + y", "515"},
		{"let sum = x + y;", ""},
		{"let y = 2;", ""},
		{"sum", "3"},
		{"{let x = 10; sum}", "12"},
		{"", ""},
		{"sum;", ""},
	}

	for _, step := range steps {
		got, err := s.Eval(t.Context(), step.line)
		if err != nil {
			t.Fatalf("Eval(%q) error: %v", step.line, err)
		}

		if got != step.want {
			t.Errorf("Eval(%q) = %q, want %q", step.line, got, step.want)
		}
	}
}

func TestSession_FailedLineKeepsState(t *testing.T) {
	s := NewSession()

	if _, err := s.Eval(t.Context(), "let a = 1;"); err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{"let b = a +;", "let a = 2", "a / 0", "{let a = 5; a / 0}"} {
		if _, err := s.Eval(t.Context(), line); err == nil {
			t.Errorf("Eval(%q) succeeded, want error", line)
		}
	}

	if _, ok := s.Lookup("b"); ok {
		t.Error("failed definition of b was stored")
	}

	got, err := s.Eval(t.Context(), "a")
	if err != nil || got != "1" {
		t.Errorf("Eval(a) = %q, %v; want 1, nil", got, err)
	}
}

func TestSession_Exec(t *testing.T) {
	input := strings.Join([]string{
		"let a = 2;",
		"",
		"# comment",
		"a * 3",
		"1 +",
		"  a + 1  ",
		"fn sq n => n * n",
		"sq a",
	}, "\n")

	var (
		out    bytes.Buffer
		failed []int
	)

	err := NewSession().Exec(t.Context(), strings.NewReader(input), &out,
		func(line int, err error) error {
			failed = append(failed, line)

			return nil
		},
	)
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}

	if want := "6\n3\n4\n"; out.String() != want {
		t.Errorf("Exec output = %q, want %q", out.String(), want)
	}

	if !slices.Equal(failed, []int{5}) {
		t.Errorf("failed lines = %v, want [5]", failed)
	}
}

func TestSession_ExecStopsAtFirstError(t *testing.T) {
	var out bytes.Buffer

	err := NewSession().Exec(t.Context(),
		strings.NewReader("1+1\nnope\n2+2\n"), &out, nil)
	if !errors.Is(err, ErrBindingNotFound) {
		t.Fatalf("Exec error = %v, want ErrBindingNotFound", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %T is not *Error", err)
	}

	if v, ok := e.Attr("line"); !ok || v.Int64() != 2 {
		t.Errorf("line attribute = %v, want 2", v)
	}

	if out.String() != "2\n" {
		t.Errorf("Exec output = %q, want %q", out.String(), "2\n")
	}
}

func TestSession_ExecCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := NewSession().Exec(ctx, strings.NewReader("1\n"), &bytes.Buffer{}, nil)
	if !errors.Is(err, ctx.Err()) {
		t.Errorf("Exec error = %v, want %v", err, ctx.Err())
	}
}

func TestSession_Definitions(t *testing.T) {
	s := NewSession()

	for _, line := range []string{
		"let w = 6;",
		"fn add a b => a + b",
		"let area = w * 7;",
	} {
		if _, err := s.Eval(t.Context(), line); err != nil {
			t.Fatalf("Eval(%q) error: %v", line, err)
		}
	}

	if got := s.Names(); !slices.Equal(got, []Identifier{"add", "area", "w"}) {
		t.Errorf("Names() = %v", got)
	}

	var names []Identifier
	for name := range s.Definitions() {
		names = append(names, name)
		if len(names) == 2 {
			break
		}
	}

	if !slices.Equal(names, []Identifier{"add", "area"}) {
		t.Errorf("Definitions() stopped early = %v", names)
	}

	var buf bytes.Buffer
	if err := s.Format(&buf); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	want := "fn add a b => a + b\nlet area = w * 7;\nlet w = 6;\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}

	// The formatted definitions recreate the session.
	r := NewSession()
	if err := r.Exec(t.Context(), &buf, &bytes.Buffer{}, nil); err != nil {
		t.Fatalf("Exec(formatted) error: %v", err)
	}

	got, err := r.Eval(t.Context(), "add area w")
	if err != nil || got != "48" {
		t.Errorf("Eval(add area w) = %q, %v; want 48, nil", got, err)
	}
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(WithCache(false))

	if _, err := s.Eval(t.Context(), "let a = 1;"); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if n := len(s.Names()); n != 0 {
		t.Errorf("len(Names()) after Reset = %d, want 0", n)
	}

	if _, err := s.Eval(t.Context(), "a"); !errors.Is(err, ErrBindingNotFound) {
		t.Errorf("Eval(a) after Reset error = %v, want ErrBindingNotFound", err)
	}
}

func TestDefinition(t *testing.T) {
	tests := []struct {
		name  Identifier
		value NamedValue
		want  string
	}{
		{
			"x",
			NamedValue{Kind: NamedBinding, Expression: NumberExpr(3)},
			"let x = 3;",
		},
		{
			"f",
			NamedValue{
				Kind:       NamedFunction,
				Expression: BindingExpr("a"),
				Parameters: []Identifier{"a"},
			},
			"fn f a => a",
		},
		{
			"g",
			NamedValue{Kind: NamedFunction, Expression: NumberExpr(0)},
			"fn g => 0",
		},
	}

	for _, tt := range tests {
		if got := Definition(tt.name, tt.value); got != tt.want {
			t.Errorf("Definition(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
