package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// ParseReader parses each line read from r as a statement. Blank lines and
// lines beginning with '#' are skipped. Parsing stops at the first line that
// fails, and the returned error carries its 1-based line number.
func ParseReader(ctx context.Context, r io.Reader) ([]Statement, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	var (
		stmts   []Statement
		scanner = bufio.NewScanner(ra)
		number  = 0
	)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		number++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		stmt, err := ParseStatementCached(ctx, line)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("line", number))
		}

		stmts = append(stmts, stmt)
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.Int("line", number))
	}

	return stmts, nil
}

// ParseString parses each line of s as a statement, as [ParseReader] does.
func ParseString(ctx context.Context, s string) ([]Statement, error) {
	return ParseReader(ctx, strings.NewReader(s))
}
