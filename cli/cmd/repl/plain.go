package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/konst/lang"
	"github.com/ardnew/konst/log"
)

const plainPrompt = "konst> "

// plainCommandPrefix introduces a command in the line editor, which has no
// separate command mode.
const plainCommandPrefix = ":"

// RunPlain runs the session with a line editor instead of the full-screen
// interface. Statement history is shared with [Run]. Commands are entered
// with a leading ':', as in ":list".
func RunPlain(
	ctx context.Context,
	s *lang.Session,
	history *History,
	out io.Writer,
	logger log.Logger,
) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetTabCompletionStyle(liner.TabPrints)
	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return complete(s, line, pos)
	})

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	for line := range history.Lines(modeEval) {
		ln.AppendHistory(line)
	}

	logger.TraceContext(ctx, "repl start", slog.Bool("plain", true))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := ln.Prompt(plainPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out)

			return nil
		}

		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ln.AppendHistory(line)

		if command, ok := strings.CutPrefix(line, plainCommandPrefix); ok {
			if err := history.Add(command, modeCtrl); err != nil {
				logger.WarnContext(ctx, "could not write history",
					slog.Any("error", err))
			}

			if quit := runPlainCommand(s, out, command); quit {
				return nil
			}

			continue
		}

		if err := history.Add(line, modeEval); err != nil {
			logger.WarnContext(ctx, "could not write history",
				slog.Any("error", err))
		}

		result, err := s.Eval(ctx, line)

		switch {
		case err != nil:
			fmt.Fprintln(out, "error:", err)
		case result != "":
			fmt.Fprintln(out, result)
		}
	}
}

// runPlainCommand runs one of the control commands that make sense without
// a full-screen interface and reports whether the session should end.
func runPlainCommand(s *lang.Session, out io.Writer, command string) (quit bool) {
	switch strings.TrimSpace(command) {
	case "q", "quit", "exit":
		return true

	case "h", "help":
		fmt.Fprintln(out, "commands: :help :list :reset :quit")

	case "l", "list":
		if err := s.Format(out); err != nil {
			fmt.Fprintln(out, "error:", err)
		}

	case "r", "reset":
		s.Reset()

	default:
		fmt.Fprintf(out, "unknown command: %s (try :help)\n", command)
	}

	return false
}

// complete implements [liner.WordCompleter] over the names defined in s and
// the language keywords, ranked by fuzzy match against the word before pos.
// The position is counted in runes.
func complete(s *lang.Session, line string, pos int) (string, []string, string) {
	runes := []rune(line)
	pos = min(max(pos, 0), len(runes))

	before, tail := string(runes[:pos]), string(runes[pos:])

	word, start, _ := wordBounds(before, len(before))
	if word == "" {
		return before, nil, tail
	}

	matches := fuzzy.Find(word, evalCandidates(s))
	completions := make([]string, len(matches))

	for i, match := range matches {
		completions[i] = match.Str
	}

	return before[:start], completions, tail
}
