// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Output format, level, time layout, and caller information are applied at
// logger creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("session started", slog.String("mode", "repl"))
//	logger.Error("statement failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// A blank time layout or "none" omits timestamps entirely.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is written as TRACE rather than
// slog's DEBUG-4. Other levels are [LevelDebug], [LevelInfo], [LevelWarn],
// and [LevelError].
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With
// [WithPretty] enabled, both are styled for a terminal using lipgloss; the
// styles degrade to plain text when the output is not a terminal.
//
// # Package Logger
//
// The package-level functions write to [Default], which logs to standard
// error until reconfigured with [Config].
package log
