package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/engine"
	"github.com/ardnew/boba/lang/value"
	"github.com/ardnew/boba/log"
)

// resolve returns a [kong.ConfigurationLoader] for config files written in
// boba itself.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.boba")
//
// The file is executed as an ordinary program with print output discarded.
// Every global variable it leaves behind becomes a flag value:
//   - Flag names with hyphens (e.g., "log-level") use underscores in the
//     config file (e.g., "log_level")
//   - Functions and variables that match no flag are ignored
//   - Ints and floats are passed to kong in their display form
//
// Example config file:
//
//	let log_level = "debug"
//	let log_format = getenv("TERM") == "dumb" ? "text" : "json"
//	let precision = 50
//
// Command-line flags override config file values. A config file that fails
// to run is reported at warn level and otherwise ignored.
func resolve(ctx context.Context, label string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		s := lang.NewSession(lang.WithEngine(
			engine.WithContext(ctx),
			engine.WithOutput(io.Discard),
		))

		if _, err := s.ExecReader(ctx, label, r); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("source", label),
				slog.Any("error", err))

			return config{}, nil
		}

		global := s.Engine().Global()
		cfg := make(config)

		for _, name := range global.VarNames() {
			v, _ := global.Var(name)
			if _, ok := v.(value.None); ok {
				continue
			}

			cfg[name] = flagValue(v)
		}

		return cfg, nil
	}
}

// flagValue converts a boba value to the form kong expects from a resolver.
func flagValue(v value.Value) any {
	switch v := v.(type) {
	case value.Int, value.Float:
		// Kong requires numbers as strings for parsing
		return v.String()
	default:
		return value.ToNative(v)
	}
}

// resolveYAML is a [kong.ConfigurationLoader] for YAML config files. Keys
// follow the same naming rules as [resolve].
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	err := yaml.NewDecoder(r).Decode(&raw)
	if errors.Is(err, io.EOF) {
		return config{}, nil
	}

	if err != nil {
		return nil, err
	}

	cfg := make(config, len(raw))

	for key, val := range raw {
		switch v := val.(type) {
		case uint64:
			cfg[key] = strconv.FormatUint(v, 10)
		case int64:
			cfg[key] = strconv.FormatInt(v, 10)
		case int:
			cfg[key] = strconv.Itoa(v)
		case float64:
			cfg[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			cfg[key] = v
		}
	}

	return cfg, nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already loaded successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but boba identifiers
	// use underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
