package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/konst/log"
)

// Exec runs script files line by line in one session.
type Exec struct {
	Sources   []string `arg:"" default:"-" help:"Script file(s) or '-' for stdin" name:"source" optional:""`
	KeepGoing bool     `                   help:"Continue after a line fails"                   short:"k"`
}

// Run executes the run command.
func (e *Exec) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	paths := e.Sources
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	srcs, closeAll, err := openSources(ctx, paths)
	if err != nil {
		return err
	}
	defer closeAll()

	var (
		s      = newSession(ctx)
		stdout = stdoutFrom(ctx)
		stderr = stderrFrom(ctx)
		failed = 0
	)

	for _, src := range srcs {
		log.DebugContext(ctx, "run script", slog.String("source", src.name))

		err := s.Exec(ctx, src.r, stdout, func(line int, err error) error {
			failed++

			fmt.Fprintf(stderr, "%s:%d: %v\n", src.name, line, err)

			if e.KeepGoing {
				return nil
			}

			return ErrScript.Wrap(err).With(
				slog.String("source", src.name),
				slog.Int("line", line),
			)
		})
		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return ErrScript.With(slog.Int("failed", failed))
	}

	return nil
}
