package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konst/lang"
)

// testContext returns a context whose commands read stdin and write to the
// returned buffers.
func testContext(t *testing.T, stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	ktx := &kong.Context{Kong: &kong.Kong{Stdout: &stdout, Stderr: &stderr}}

	ctx := WithContext(t.Context(), ktx)
	ctx = WithStdin(ctx, strings.NewReader(stdin))

	return ctx, &stdout, &stderr
}

// writeFile writes content to name in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, srcs []source) []string {
	t.Helper()

	out := make([]string, len(srcs))

	for i, src := range srcs {
		data, err := io.ReadAll(src.r)
		if err != nil {
			t.Fatalf("reading %s: %v", src.name, err)
		}

		out[i] = string(data)
	}

	return out
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.konst", "let a = 1;\n")
	second := writeFile(t, dir, "second.konst", "a\n")

	link := filepath.Join(dir, "link.konst")
	if err := os.Symlink(first, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	ctx, _, _ := testContext(t, "stdin\n")

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"single", []string{first}, []string{"let a = 1;\n"}},
		{"ordered", []string{second, first}, []string{"a\n", "let a = 1;\n"}},
		{"duplicate", []string{first, first}, []string{"let a = 1;\n"}},
		{"symlink", []string{first, link}, []string{"let a = 1;\n"}},
		{"stdin_once", []string{"-", first, "-"}, []string{"stdin\n", "let a = 1;\n"}},
		{"none", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, closeAll, err := openSources(ctx, tt.paths)
			if err != nil {
				t.Fatalf("openSources error: %v", err)
			}
			defer closeAll()

			got := readSources(t, srcs)
			if len(got) != len(tt.want) {
				t.Fatalf("sources = %q, want %q", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("source %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOpenSources_Missing(t *testing.T) {
	ctx, _, _ := testContext(t, "")

	_, _, err := openSources(ctx, []string{filepath.Join(t.TempDir(), "nope.konst")})
	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("error = %v, want ErrOpenSource", err)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want to wrap fs.ErrNotExist", err)
	}
}

func TestSessionOptions(t *testing.T) {
	if opts := sessionOptionsFrom(t.Context()); opts != nil {
		t.Errorf("sessionOptionsFrom(empty) = %v, want nil", opts)
	}

	ctx := WithSessionOptions(t.Context(), lang.WithCache(false), lang.WithMaxDepth(8))
	if n := len(sessionOptionsFrom(ctx)); n != 2 {
		t.Errorf("len(sessionOptionsFrom) = %d, want 2", n)
	}

	got, err := newSession(ctx).Eval(ctx, "2 * 21")
	if err != nil || got != "42" {
		t.Errorf("Eval = %q, %v; want 42, nil", got, err)
	}
}

func TestOutputDefaults(t *testing.T) {
	if stdoutFrom(t.Context()) != os.Stdout {
		t.Error("stdoutFrom without kong context is not os.Stdout")
	}

	if stderrFrom(t.Context()) != os.Stderr {
		t.Error("stderrFrom without kong context is not os.Stderr")
	}

	if stdinFrom(t.Context()) != os.Stdin {
		t.Error("stdinFrom without override is not os.Stdin")
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrScript.Wrap(cause)

	if err.Error() != "run script: boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	if !errors.Is(err, ErrScript) || !errors.Is(err, cause) {
		t.Error("wrapped error does not match its sentinel and cause")
	}

	if errors.Is(err, ErrEval) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if got := NewError("").Wrap(cause).Error(); got != "boom" {
		t.Errorf("Error() without message = %q", got)
	}
}

func TestVersion(t *testing.T) {
	ctx, stdout, _ := testContext(t, "")

	if err := (Version{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(stdout.String(), "konst ") {
		t.Errorf("version output = %q", stdout.String())
	}
}
