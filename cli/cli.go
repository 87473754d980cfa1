package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konst/cli/cmd"
	"github.com/ardnew/konst/lang"
	"github.com/ardnew/konst/log"
	"github.com/ardnew/konst/pkg"
)

// CLI is the top-level command-line interface for konst.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxDepth int  `default:"${maxDepth}" help:"Maximum nesting depth of evaluation"`
	Cache    bool `default:"true"        help:"Cache parsed statements"             negatable:""`

	Repl    cmd.Repl    `cmd:"" default:"1" help:"Start an interactive session"`
	Eval    cmd.Eval    `cmd:""             help:"Evaluate each argument as a line of input"`
	Run     cmd.Exec    `cmd:""             help:"Run script files line by line"`
	Fmt     cmd.Fmt     `cmd:""             help:"Format statements"`
	Version cmd.Version `cmd:""             help:"Print version information"`
}

// Run executes the konst CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, os.Stdout, os.Stderr, args...)
}

func run(
	ctx context.Context,
	exit func(code int),
	stdout, stderr io.Writer,
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath()

	vars := kong.Vars{
		cmd.ConfigIdentifier:   configFilePath + ".yaml",
		cmd.CacheIdentifier:    cacheDir(),
		cmd.HistoryIdentifier:  historyPath(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSessionOptions(ctx,
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(cli.MaxDepth),
		lang.WithCache(cli.Cache),
	)

	ktx.BindTo(ctx, (*context.Context)(nil))

	// Execute the selected command
	return ktx.Run()
}
