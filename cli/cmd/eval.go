package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ardnew/boba/lang/value"
)

// Eval evaluates programs given on the command line in one session and
// prints the value of each.
type Eval struct {
	Format string `default:"native" enum:"native,quoted,json" help:"Result format (${enum})" short:"o"`

	Programs []string `arg:"" help:"Program text to evaluate" name:"program"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx)
	if err != nil {
		return report(ctx, s, err)
	}

	out := streamsFrom(ctx).Out

	for i, text := range e.Programs {
		label := fmt.Sprintf("<arg %d>", i+1)

		result, err := s.Exec(ctx, label, text)
		if err != nil {
			return report(ctx, s, err)
		}

		settingsFrom(ctx).Logger.DebugContext(ctx, "eval",
			slog.String("source", label),
			slog.String("type", result.TypeName()))

		line, err := e.render(result)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	return nil
}

// render formats v for output.
func (e *Eval) render(v value.Value) (string, error) {
	switch e.Format {
	case "json":
		data, err := json.Marshal(value.ToNative(v))
		if err != nil {
			return "", ErrJSONMarshal.
				With(slog.String("type", v.TypeName())).
				Wrap(err)
		}

		return string(data), nil

	case "quoted":
		return value.Quote(v), nil

	default:
		return v.String(), nil
	}
}
