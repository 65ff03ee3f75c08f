package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Run executes source files statement by statement in one session.
type Run struct {
	Files []string `arg:"" help:"Source file(s) to execute, or '-' for stdin" name:"file" optional:"" type:"existingfile"`
}

// Run executes the run command. With no files at all, it reads a program
// from stdin, or starts the REPL when stdin is a terminal.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	files := buildSourceFiles(r.Files)
	prelude := sourceFilesFrom(ctx)

	if files.IsZero() && !prelude.HasStdin() {
		if interactive(streamsFrom(ctx).In) {
			return (&Repl{}).Run(ctx)
		}

		files = SourceFiles{{Name: stdinLabel, path: stdinSource}}
	}

	s, err := newSession(ctx)
	if err != nil {
		return report(ctx, s, err)
	}

	for _, src := range files {
		settingsFrom(ctx).Logger.DebugContext(ctx, "run", sourceAttr(src.Name))

		if err := execSource(ctx, s, src); err != nil {
			settingsFrom(ctx).Logger.DebugContext(ctx, "run failed",
				sourceAttr(src.Name),
				slog.Any("error", err))

			return report(ctx, s, err)
		}
	}

	return nil
}

// interactive reports whether r is a terminal.
func interactive(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
