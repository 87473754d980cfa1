// Package cmd implements the konst subcommands: repl, eval, run, fmt, and
// version.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// and the options used to create each [lang.Session]. Output is written to
// the kong context's Stdout and Stderr.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the REPL history file.
	HistoryIdentifier = "history"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default call depth limit.
	MaxDepthIdentifier = "maxDepth"
)
