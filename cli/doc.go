// Package cli contains the command line interface for konst.
//
// # Usage
//
//	konst [flags] <command>
//
// Without a command, konst starts an interactive session (repl). The other
// commands are eval, run, fmt, and version.
//
// # Configuration
//
// Flags may also be set in $XDG_CONFIG_HOME/konst/config.yaml, where nested
// mappings name flag prefixes:
//
//	log:
//	  level: debug
//	max-depth: 200
//
// A config.json in the same directory is read by [kong.JSON].
// Command-line flags override both files.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o konst .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/konst/pprof)
//
// # Examples
//
//	# Evaluate statements
//	konst eval 'fn sq n => n * n' 'sq 12'
//
//	# Run a script with debug logging
//	konst --log-level=debug run defs.konst main.konst
//
//	# Show the syntax tree of a script
//	konst fmt tree main.konst
package cli
