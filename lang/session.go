package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/engine"
	"github.com/ardnew/boba/lang/parser"
	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/lang/value"
	"github.com/ardnew/boba/log"
)

// Session is a source cache paired with one engine. Every program run
// through a session shares the same global frame, so definitions made by one
// call to [Session.Exec] are visible to the next.
//
// A Session is not safe for concurrent use.
type Session struct {
	cache  *source.Cache
	engine *engine.Engine
	logger log.Logger

	engineOpts []engine.Option
}

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the structured logger for trace-level debugging of both
// the session and its engine.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
		s.engineOpts = append(s.engineOpts, engine.WithLogger(logger))
	}
}

// WithEngine passes options through to the session's engine.
func WithEngine(opts ...engine.Option) Option {
	return func(s *Session) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// NewSession returns a session with an empty cache and a fresh engine.
func NewSession(opts ...Option) *Session {
	s := &Session{cache: source.NewCache()}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = engine.New(s.engineOpts...)

	return s
}

// Cache returns the cache holding every source text the session has seen.
func (s *Session) Cache() *source.Cache { return s.cache }

// Engine returns the session's engine.
func (s *Session) Engine() *engine.Engine { return s.engine }

// ParseString stores text under label and parses it as a program.
func (s *Session) ParseString(
	ctx context.Context,
	label, text string,
) ([]ast.Node[ast.Statement], error) {
	return s.parse(ctx, s.cache.Store(label, text))
}

// ParseReader reads r to the end, stores it under label, and parses it as a
// program.
func (s *Session) ParseReader(
	ctx context.Context,
	label string,
	r io.Reader,
) ([]ast.Node[ast.Statement], error) {
	buf, err := s.cache.ReadFrom(label, r)
	if err != nil {
		return nil, err
	}

	return s.parse(ctx, buf)
}

func (s *Session) parse(
	ctx context.Context,
	buf *source.Buffer,
) ([]ast.Node[ast.Statement], error) {
	program, err := parser.ParseBuffer(buf)
	if err != nil {
		return nil, err
	}

	s.logger.TraceContext(ctx, "parse complete",
		slog.String("source", buf.Label()),
		slog.Int("statement_count", len(program)))

	return program, nil
}

// Exec parses text and executes it statement by statement, returning the
// value of the last statement. It stops at the first error, leaving the
// effects of earlier statements in place, and checks ctx between
// statements.
func (s *Session) Exec(ctx context.Context, label, text string) (value.Value, error) {
	program, err := s.ParseString(ctx, label, text)
	if err != nil {
		return nil, err
	}

	return s.Run(ctx, program)
}

// ExecReader is like [Session.Exec] but reads the program from r.
func (s *Session) ExecReader(ctx context.Context, label string, r io.Reader) (value.Value, error) {
	program, err := s.ParseReader(ctx, label, r)
	if err != nil {
		return nil, err
	}

	return s.Run(ctx, program)
}

// Run executes an already parsed program.
func (s *Session) Run(ctx context.Context, program []ast.Node[ast.Statement]) (value.Value, error) {
	var result value.Value = value.None{}

	for _, stmt := range program {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := s.engine.EvalStatement(stmt)
		if err != nil {
			return nil, err
		}

		s.logger.TraceContext(ctx, "statement",
			slog.String("span", stmt.Span().String()),
			slog.String("result", v.TypeName()))

		result = v
	}

	return result, nil
}

// Report writes a diagnostic for err to w. Errors that carry a source
// location are rendered as an annotated snippet from the session's cache;
// any other error is written on a single line.
func (s *Session) Report(w io.Writer, err error, color bool) error {
	var r source.Reporter
	if errors.As(err, &r) {
		return s.cache.Render(w, r.Report(), color)
	}

	_, werr := fmt.Fprintf(w, "error: %v\n", err)

	return werr
}
