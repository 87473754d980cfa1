package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/konst/cli/cmd/repl"
	"github.com/ardnew/konst/log"
)

// Repl runs an interactive session.
type Repl struct {
	Plain   bool     `help:"Use a plain line editor instead of the full-screen interface"`
	Load    []string `help:"Load definitions from file(s) before starting"                          short:"l" type:"existingfile"`
	History string   `help:"History file (empty to disable)"                     default:"${history}" type:"path"`
}

// Run executes the repl command.
//
// When standard input is not a terminal, its lines are evaluated as a script
// and each failure is reported to stderr without stopping.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	s := newSession(ctx)

	if len(r.Load) > 0 {
		srcs, closeAll, err := openSources(ctx, r.Load)
		if err != nil {
			return err
		}
		defer closeAll()

		for _, src := range srcs {
			if err := s.Exec(ctx, src.r, io.Discard, nil); err != nil {
				return ErrLoad.Wrap(err).With(slog.String("source", src.name))
			}
		}

		log.DebugContext(ctx, "definitions loaded",
			slog.Int("sources", len(srcs)),
			slog.Int("definitions", len(s.Names())),
		)
	}

	stdin, stdout := stdinFrom(ctx), stdoutFrom(ctx)

	if !isTerminal(stdin) {
		stderr := stderrFrom(ctx)

		return s.Exec(ctx, stdin, stdout, func(line int, err error) error {
			fmt.Fprintf(stderr, "%d: error: %v\n", line, err)

			return nil
		})
	}

	history, err := r.openHistory()
	if err != nil {
		return err
	}

	if r.Plain || !isTerminal(stdout) {
		return repl.RunPlain(ctx, s, history, stdout, log.Default())
	}

	return repl.Run(ctx, s, history, log.Default(), sessionOptionsFrom(ctx)...)
}

// openHistory creates the directory of the history file. An empty path keeps
// history in memory only.
func (r *Repl) openHistory() (*repl.History, error) {
	if r.History == "" {
		return repl.NewHistory(""), nil
	}

	if err := os.MkdirAll(filepath.Dir(r.History), 0o700); err != nil {
		return nil, ErrHistory.Wrap(err).With(slog.String("file", r.History))
	}

	return repl.NewHistory(r.History), nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
