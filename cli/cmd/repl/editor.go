package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/konst/lang"
	"github.com/ardnew/konst/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-load-retry loop.
// It writes the session's definitions to a temp file, opens the user's
// editor, and loads the result into a new session. When loading fails the
// user is prompted to re-edit; declining exits the program.
type editCommand struct {
	session    *lang.Session
	newSession func() *lang.Session
	ctxFunc    func() context.Context
	logger     log.Logger
	edited     *lang.Session
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. If the user declines to re-edit
// after a failure, it returns [ErrEditDeclined]. An emptied file leaves the
// session unchanged.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.session.Format(&buf); err != nil {
		return fmt.Errorf("format definitions: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "konst-repl-*.konst")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		content, err = runEditor(ctx, c.stdin, c.stdout, c.stderr, path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		edited := c.newSession()
		loadErr := edited.Exec(ctx, bytes.NewReader(content), io.Discard, nil)

		c.logger.TraceContext(
			ctx,
			"editor load attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.edited = edited

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", describe(loadErr))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}
	}
}

// confirm reads a line from r and reports whether it is not a refusal.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	default:
		return true
	}
}

// describe formats err with the line number attached by [lang.Session.Exec].
func describe(err error) string {
	if line, ok := lang.WrapError(err).Attr("line"); ok {
		return fmt.Sprintf("line %d: %s", line.Int64(), err)
	}

	return err.Error()
}

// runEditor opens path in the user's $EDITOR and returns the edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
