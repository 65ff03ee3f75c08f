package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/boba/cli/cmd/repl"
)

// Repl starts an interactive session, optionally after running source files
// whose definitions become visible at the prompt.
type Repl struct {
	Files []string `arg:"" help:"Source file(s) to run before the prompt" name:"file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)

	s, err := newSession(ctx)
	if err != nil {
		return report(ctx, s, err)
	}

	for _, src := range buildSourceFiles(r.Files) {
		if err := execSource(ctx, s, src); err != nil {
			return report(ctx, s, err)
		}
	}

	opts := repl.Options{
		HistoryPath: repl.HistoryPath(settings.CacheDir),
		Color:       settings.Color,
		Logger:      settings.Logger,
	}

	settings.Logger.DebugContext(ctx, "repl", slog.String("history", opts.HistoryPath))

	return repl.Run(ctx, s, opts)
}
