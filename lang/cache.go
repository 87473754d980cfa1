package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/konst/log"
)

// globalCache stores parsed statements keyed by the hash of their trimmed
// source text. Parsed statements are never modified after construction, so
// one tree may be shared by any number of sessions.
var globalCache sync.Map

// entry is a cached parse result.
type entry struct {
	once   sync.Once
	source string
	stmt   Statement
	err    error
}

// ParseStatementCached is like [ParseStatement], but shares results for
// identical input through a package-level cache.
func ParseStatementCached(ctx context.Context, line string) (Statement, error) {
	return parseCached(ctx, line, log.Logger{})
}

func parseCached(
	ctx context.Context,
	line string,
	logger log.Logger,
) (Statement, error) {
	t := trim(line)
	hash := xxh3.HashString(string(t))

	value, loaded := globalCache.LoadOrStore(hash, &entry{source: string(t)})
	e := value.(*entry)

	// Hash collision: parse without caching.
	if e.source != string(t) {
		logger.TraceContext(ctx, "parse cache collision",
			slog.String("key", strconv.FormatUint(hash, 36)),
		)

		return parseStatement(t)
	}

	e.once.Do(func() {
		e.stmt, e.err = parseStatement(t)
	})

	logger.TraceContext(ctx, "parse",
		slog.String("key", strconv.FormatUint(hash, 36)),
		slog.Bool("cached", loaded),
		slog.Bool("ok", e.err == nil),
	)

	return e.stmt, e.err
}

// ClearCache discards every cached parse result.
func ClearCache() {
	globalCache.Clear()
}
