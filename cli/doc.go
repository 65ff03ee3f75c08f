// Package cli contains the command line interface for boba.
//
// # Usage
//
// With no command, boba runs the given source files in order, reads a
// program from stdin, or starts the REPL when stdin is a terminal:
//
//	boba script.boba
//	echo 'print(1 + 2)' | boba
//	boba -s lib.boba eval 'greet("world")'
//
// Source files named with --source run first in every command, so their
// definitions are visible to the files, arguments, or REPL that follow.
//
// # Commands
//
//   - run: Execute source files
//   - eval: Evaluate programs given as arguments and print each value
//   - fmt: Format source files as boba, JSON, or YAML
//   - repl: Start an interactive session
//   - init: Write a configuration file from the current flags
//
// # Configuration
//
// Flag defaults are read from the user configuration directory. Three forms
// are accepted, in order of precedence:
//
//   - config.json: a flat JSON object
//   - config.yaml (or config.yml): a flat YAML mapping
//   - config.boba: a boba program; its global variables become flag values
//
// Hyphens in flag names are written as underscores in a boba config
// (log_level for --log-level). Command-line flags override every config file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o boba .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/boba/pprof)
//
// # Examples
//
//	# Evaluate with more float precision and print JSON
//	boba --precision=60 eval -o json '1.0 / 3'
//
//	# Debug logging with CPU profiling
//	boba --log-level=debug --pprof-mode=cpu run script.boba
//
//	# Canonical formatting with two-space indentation
//	boba fmt -i 2 script.boba
package cli
