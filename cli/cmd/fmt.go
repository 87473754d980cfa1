package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/konst/lang"
)

// Fmt parses statements and renders them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as konst statements (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Tree   Tree   `cmd:""                    help:"Format as syntax tree."`
}

// readStatements parses every statement of the source at path.
func readStatements(ctx context.Context, path, format string) ([]lang.Statement, error) {
	srcs, closeAll, err := openSources(ctx, []string{path})
	if err != nil {
		return nil, err
	}
	defer closeAll()

	var stmts []lang.Statement

	for _, src := range srcs {
		parsed, err := lang.ParseReader(ctx, src.r)
		if err != nil {
			return nil, ErrParseSource.Wrap(err).With(
				slog.String("source", src.name),
				slog.String("format", format),
			)
		}

		stmts = append(stmts, parsed...)
	}

	return stmts, nil
}

// Native formats input as konst statements, one per line.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	stmts, err := readStatements(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	if err := lang.Format(stdoutFrom(ctx), stmts); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "native"))
	}

	return nil
}

// JSON formats input as a JSON array of statement trees.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	stmts, err := readStatements(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(stdoutFrom(ctx), stmts, j.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML formats input as a YAML sequence of statement trees.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	stmts, err := readStatements(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, stdoutFrom(ctx), stmts, y.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// Tree prints the indented syntax tree of each statement.
type Tree struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	stmts, err := readStatements(ctx, t.Source, "tree")
	if err != nil {
		return err
	}

	if err := lang.Print(stdoutFrom(ctx), stmts); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "tree"))
	}

	return nil
}
