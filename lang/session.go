package lang

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/konst/log"
)

// DefaultMaxDepth is the default limit on nested evaluation.
// Users may modify this before creating a session to change the default.
var DefaultMaxDepth = 1000

// Option configures a [Session].
type Option func(*Session)

// WithMaxDepth sets the limit on nested evaluation, which bounds the
// recursion of self-referencing bindings and functions.
func WithMaxDepth(depth int) Option {
	return func(s *Session) {
		s.rt.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.rt.logger = logger
	}
}

// WithCache controls whether parsed statements are shared through the
// package-level parse cache. It is enabled by default.
func WithCache(enable bool) Option {
	return func(s *Session) {
		s.cache = enable
	}
}

// Session evaluates lines of input against one root [Environment] that
// accumulates definitions across lines.
//
// A Session is not safe for concurrent use.
type Session struct {
	root  *Environment
	rt    *runtime
	cache bool
}

// NewSession returns a session with an empty root environment.
func NewSession(opts ...Option) *Session {
	s := &Session{
		rt:    &runtime{maxDepth: DefaultMaxDepth},
		cache: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.root = newEnvironment(s.rt)

	return s
}

// Environment returns the root environment of s.
func (s *Session) Environment() *Environment { return s.root }

// Reset discards every definition in s.
func (s *Session) Reset() {
	s.root = newEnvironment(s.rt)
}

// Parse parses line as a statement, consulting the parse cache if enabled.
func (s *Session) Parse(ctx context.Context, line string) (Statement, error) {
	if s.cache {
		return parseCached(ctx, line, s.rt.logger)
	}

	return ParseStatement(line)
}

// Eval parses, executes, and evaluates one line of input.
//
// It returns the decimal form of the resulting number, or "" when the line
// yields no value (such as a definition). A line that fails leaves the
// definitions of s unchanged.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	s.rt.logger.TraceContext(ctx, "eval", slog.String("line", line))

	stmt, err := s.Parse(ctx, line)
	if err != nil {
		return "", err
	}

	s.rt.depth = 0

	expr, err := stmt.Execute(s.root)
	if err != nil {
		return "", err
	}

	val, err := expr.Eval(s.root)
	if err != nil {
		return "", err
	}

	s.rt.logger.TraceContext(ctx, "eval result",
		slog.String("kind", val.Kind.String()),
		slog.String("value", val.String()),
	)

	return val.String(), nil
}

// Exec evaluates each line read from r in order, writing each non-empty
// result to w on its own line. Blank lines and lines beginning with '#' are
// skipped.
//
// Each failed line is passed to handle with its 1-based line number. If handle
// returns nil, execution continues with the next line; otherwise Exec stops
// and returns that error. A nil handle stops at the first failure.
func (s *Session) Exec(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	handle func(line int, err error) error,
) error {
	// Read ahead asynchronously while earlier lines are evaluated.
	ra := readahead.NewReader(r)
	defer ra.Close()

	if handle == nil {
		handle = func(line int, err error) error {
			return WrapError(err).With(slog.Int("line", line))
		}
	}

	scanner := bufio.NewScanner(ra)
	number := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		number++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		result, err := s.Eval(ctx, line)
		if err != nil {
			if herr := handle(number, err); herr != nil {
				return herr
			}

			continue
		}

		if result == "" {
			continue
		}

		if _, err := fmt.Fprintln(w, result); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return ErrReadInput.Wrap(err).With(slog.Int("line", number))
	}

	s.rt.logger.TraceContext(ctx, "exec complete", slog.Int("lines", number))

	return nil
}

// Lookup returns the definition stored under name in the root environment.
func (s *Session) Lookup(name Identifier) (NamedValue, bool) {
	return s.root.Local(name)
}

// Names returns the sorted names defined in the root environment.
func (s *Session) Names() []Identifier { return s.root.Names() }

// Definitions returns an iterator over the root definitions in name order.
func (s *Session) Definitions() iter.Seq2[Identifier, NamedValue] {
	return func(yield func(Identifier, NamedValue) bool) {
		for _, name := range s.root.Names() {
			v, ok := s.root.Local(name)
			if !ok {
				continue
			}

			if !yield(name, v) {
				return
			}
		}
	}
}

// Format writes every root definition as a line of source that recreates it.
func (s *Session) Format(w io.Writer) error {
	for name, v := range s.Definitions() {
		if _, err := fmt.Fprintln(w, Definition(name, v)); err != nil {
			return err
		}
	}

	return nil
}

// Definition returns the source line that defines name as v.
func Definition(name Identifier, v NamedValue) string {
	if params, body, ok := v.Function(); ok {
		return signature(name, params) + " => " + body.String()
	}

	return (&BindingDef{Name: name, Expression: v.Expression}).String()
}
