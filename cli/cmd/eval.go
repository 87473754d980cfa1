package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/konst/log"
)

// Eval evaluates each argument as a line of input to one session.
type Eval struct {
	Lines     []string `arg:"" help:"Statements to evaluate in order"            name:"line"`
	KeepGoing bool     `       help:"Continue after a line fails to evaluate"                short:"k"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	var (
		s      = newSession(ctx)
		stdout = stdoutFrom(ctx)
		stderr = stderrFrom(ctx)
		failed = 0
	)

	for i, line := range e.Lines {
		result, err := s.Eval(ctx, line)
		if err != nil {
			if !e.KeepGoing {
				return ErrEval.Wrap(err).With(slog.Int("arg", i+1))
			}

			failed++

			fmt.Fprintf(stderr, "%d: error: %v\n", i+1, err)

			continue
		}

		if result != "" {
			fmt.Fprintln(stdout, result)
		}
	}

	log.DebugContext(ctx, "eval complete",
		slog.Int("lines", len(e.Lines)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrEval.With(slog.Int("failed", failed))
	}

	return nil
}
