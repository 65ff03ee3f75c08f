package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/ast"
)

// Fmt parses a source file and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical boba syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
}

// formatter writes a parsed program to an output stream.
type formatter func(
	ctx context.Context,
	w io.Writer,
	program []ast.Node[ast.Statement],
	indent int,
) error

// formatSource parses the file at path ("-" for stdin) and writes it with
// format. Parse errors are rendered as diagnostics.
func formatSource(
	ctx context.Context,
	path string,
	indent int,
	name string,
	format formatter,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)
	s := lang.NewSession(lang.WithLogger(settingsFrom(ctx).Logger))

	src := SourceFile{Name: path, path: path}
	if src.IsStdin() {
		src.Name = stdinLabel
	}

	r, err := src.Open(streams.In)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(sourceAttr(src.Name))
	}
	defer r.Close()

	program, err := s.ParseReader(ctx, src.Name, r)
	if err != nil {
		return report(ctx, s, err)
	}

	settingsFrom(ctx).Logger.DebugContext(ctx, "format",
		slog.String("format", name),
		sourceAttr(src.Name),
		slog.Int("statement_count", len(program)))

	return format(ctx, streams.Out, program, indent)
}

// Native formats input as canonical boba syntax.
type Native struct {
	Indent int `default:"4" help:"Indent width for nested blocks (0 for tabs)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native fmt command.
func (f *Native) Run(ctx context.Context) error {
	return formatSource(ctx, f.Source, f.Indent, "native", lang.Format)
}

// JSON prints the syntax tree of its input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json fmt command.
func (j *JSON) Run(ctx context.Context) error {
	return formatSource(ctx, j.Source, j.Indent, "json",
		func(ctx context.Context, w io.Writer, program []ast.Node[ast.Statement], indent int) error {
			if err := lang.FormatJSON(ctx, w, program, indent); err != nil {
				return ErrJSONMarshal.Wrap(err)
			}

			return nil
		})
}

// YAML prints the syntax tree of its input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml fmt command.
func (y *YAML) Run(ctx context.Context) error {
	return formatSource(ctx, y.Source, y.Indent, "yaml", lang.FormatYAML)
}
