package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konst/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sessionOptionsKey struct{}
	stdinKey          struct{}
)

// WithSessionOptions returns a new context.Context carrying the options used
// by commands to create a [lang.Session].
func WithSessionOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, sessionOptionsKey{}, opts)
}

func sessionOptionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(sessionOptionsKey{}).([]lang.Option)

	return opts
}

// newSession creates a session with the options stored in ctx.
func newSession(ctx context.Context) *lang.Session {
	return lang.NewSession(sessionOptionsFrom(ctx)...)
}

// WithStdin returns a new context.Context whose commands read standard input
// from r instead of [os.Stdin].
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdoutFrom returns the output writer of the kong context in ctx.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderrFrom returns the error writer of the kong context in ctx.
func stderrFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// source is one input of a command, named for error messages.
type source struct {
	name string
	r    io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName names standard input in error messages.
const stdinName = "<stdin>"

// openSources opens each of paths in order, returning a source per distinct
// file and a function that closes them all.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs, so a file named twice is read once. Every occurrence of "-" refers
// to the same stdin reader.
func openSources(ctx context.Context, paths []string) ([]source, func(), error) {
	var (
		srcs   = make([]source, 0, len(paths))
		files  []*os.File
		seen   = make(map[fileKey]struct{})
		stdin  = stdinFrom(ctx)
		closer = func() {
			for _, f := range files {
				_ = f.Close()
			}
		}
	)

	// Stdin may be named as a file (e.g., /dev/stdin).
	var stdinKey *fileKey

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			if key, ok := makeFileKey(info); ok {
				stdinKey = &key
			}
		}
	}

	addStdin := func() {
		if stdinKey != nil {
			if _, dup := seen[*stdinKey]; dup {
				return
			}

			seen[*stdinKey] = struct{}{}
		}

		for _, s := range srcs {
			if s.name == stdinName {
				return
			}
		}

		srcs = append(srcs, source{name: stdinName, r: stdin})
	}

	for _, path := range paths {
		if path == stdinSource {
			addStdin()

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			closer()

			return nil, nil, ErrOpenSource.Wrap(err).With(slog.String("file", path))
		}

		if file == nil {
			continue
		}

		if stdinKey != nil && key == *stdinKey {
			_ = file.Close()

			srcs = append(srcs, source{name: stdinName, r: stdin})

			continue
		}

		files = append(files, file)
		srcs = append(srcs, source{name: path, r: file})
	}

	return srcs, closer, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate yields a nil file and no error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if !ok {
		return file, key, nil
	}

	if _, exists := seen[key]; exists {
		_ = file.Close()

		return nil, key, nil
	}

	seen[key] = struct{}{}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
