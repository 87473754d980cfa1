package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/konst/lang"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		keepGoing  bool
		wantOut    string
		wantStderr string
		wantErr    error
	}{
		{
			name:    "definitions_and_results",
			lines:   []string{"let w = 6;", "fn area a b => a * b", "area w 7", "w;"},
			wantOut: "42\n",
		},
		{
			name:    "stops_at_first_error",
			lines:   []string{"1 + 1", "nope", "2 + 2"},
			wantOut: "2\n",
			wantErr: ErrEval,
		},
		{
			name:       "keep_going",
			lines:      []string{"1 + 1", "nope", "2 + 2"},
			keepGoing:  true,
			wantOut:    "2\n4\n",
			wantStderr: "2: error: ",
			wantErr:    ErrEval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, stderr := testContext(t, "")

			err := (&Eval{Lines: tt.lines, KeepGoing: tt.keepGoing}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run error = %v, want %v", err, tt.wantErr)
			}

			if stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}

			if !strings.HasPrefix(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want prefix %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestEval_WrapsLangError(t *testing.T) {
	ctx, _, _ := testContext(t, "")

	err := (&Eval{Lines: []string{"1 / 0"}}).Run(ctx)
	if !errors.Is(err, lang.ErrDivisionByZero) {
		t.Errorf("Run error = %v, want ErrDivisionByZero", err)
	}
}
