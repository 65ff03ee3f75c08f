package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/boba/cli/cmd"
	"github.com/ardnew/boba/pkg"
)

// CLI is the top-level command-line interface for boba.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Precision uint32    `default:"34"   help:"Significant digits for float arithmetic."`
	MaxDepth  int       `default:"1000" help:"Maximum nesting of function calls."`
	Color     colorMode `default:"auto" help:"Colorize diagnostics."                            enum:"auto,always,never"`
	Source    []string  `               help:"Run source file(s) first, or '-' for stdin"         name:"source"            short:"s" type:"existingfile"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Execute source files"`
	Eval cmd.Eval `cmd:""                    help:"Evaluate programs given as arguments"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format source files"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Write a configuration file from the current flags"`
}

// Run executes the boba CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath + cmd.ConfigExt,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
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
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
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
		kong.Configuration(resolveYAML, configFilePath+".yaml", configFilePath+".yml"),
		kong.Configuration(resolve(ctx, configFilePath+cmd.ConfigExt), configFilePath+cmd.ConfigExt),
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
	logger := cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithStreams(ctx, cmd.Streams{
		In:  os.Stdin,
		Out: ktx.Stdout,
		Err: ktx.Stderr,
	})
	ctx = cmd.WithSettings(ctx, cmd.Settings{
		Precision: cli.Precision,
		MaxDepth:  cli.MaxDepth,
		Color:     cli.Color.enabled(os.Stderr),
		CacheDir:  pkg.CacheDir(),
		Logger:    logger,
	})

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
