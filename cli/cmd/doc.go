// Package cmd implements the boba subcommands: run, eval, fmt, repl, and
// init.
//
// Commands receive everything beyond their own flags through the
// [context.Context] kong binds to them: the parsed [kong.Context]
// ([WithContext]), the global source files ([WithSourceFiles]), the standard
// streams ([WithStreams]), and interpreter [Settings] ([WithSettings]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the boba configuration file.
	ConfigIdentifier = "config"
)

// ConfigExt is the file extension of boba source and configuration files.
const ConfigExt = ".boba"
