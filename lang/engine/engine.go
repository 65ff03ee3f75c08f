// Package engine evaluates boba syntax trees.
//
// An [Engine] owns one global frame and a stack of call frames. Bindings are
// always written to the innermost frame (or the global frame when no call is
// active), and lookups search from the innermost frame outward. Visibility is
// therefore decided by the call stack at run time: a function body sees the
// frames of its callers, never the frames that were active where it was
// defined.
package engine

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/value"
	"github.com/ardnew/boba/log"
)

// Defaults for [New].
const (
	DefaultPrecision    = 34
	DefaultMaxDepth     = 1000
	DefaultMaxStringLen = 1 << 28
)

// Engine is a tree-walking evaluator. It is not safe for concurrent use.
type Engine struct {
	global *Scope
	frames []*Scope

	ctx       context.Context
	logger    log.Logger
	dec       *apd.Context
	out       io.Writer
	lookupEnv func(string) (string, bool)

	maxDepth     int
	maxStringLen int
	builtins     bool
	natives      []ast.Native
}

// Option configures an [Engine].
type Option func(*Engine)

// WithContext sets the context attached to trace log records.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		e.ctx = ctx
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPrecision sets the number of significant digits kept by decimal
// arithmetic.
func WithPrecision(digits uint32) Option {
	return func(e *Engine) {
		if digits > 0 {
			e.dec = apd.BaseContext.WithPrecision(digits)
		}
	}
}

// WithOutput sets the writer used by the print built-in.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithEnviron sets the process environment seen by the getenv built-in.
// The format is []string{"KEY=VALUE", ...}. If nil, the real process
// environment is used.
func WithEnviron(env []string) Option {
	return func(e *Engine) {
		if env == nil {
			e.lookupEnv = os.LookupEnv

			return
		}

		m := buildEnvMap(env)
		e.lookupEnv = func(key string) (string, bool) {
			v, ok := m[key]

			return v, ok
		}
	}
}

// WithMaxDepth limits the number of nested function calls.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithMaxStringLen sets the length in bytes at which string repetition
// saturates.
func WithMaxStringLen(n int) Option {
	return func(e *Engine) {
		e.maxStringLen = n
	}
}

// WithoutBuiltins leaves the global frame empty except for natives added with
// [WithNatives].
func WithoutBuiltins() Option {
	return func(e *Engine) {
		e.builtins = false
	}
}

// WithNatives registers host functions in the global frame. They replace
// built-ins of the same name.
func WithNatives(natives ...ast.Native) Option {
	return func(e *Engine) {
		e.natives = append(e.natives, natives...)
	}
}

// New returns an engine whose global frame holds the built-in natives.
func New(opts ...Option) *Engine {
	e := &Engine{
		global:       NewScope(),
		ctx:          context.Background(),
		dec:          apd.BaseContext.WithPrecision(DefaultPrecision),
		out:          os.Stdout,
		lookupEnv:    os.LookupEnv,
		maxDepth:     DefaultMaxDepth,
		maxStringLen: DefaultMaxStringLen,
		builtins:     true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.builtins {
		for _, f := range e.builtinNatives() {
			e.global.SetFunc(f)
		}
	}

	for _, f := range e.natives {
		e.global.SetFunc(f)
	}

	return e
}

// Global returns the global frame.
func (e *Engine) Global() *Scope { return e.global }

// SetOutput replaces the writer used by the print built-in.
func (e *Engine) SetOutput(w io.Writer) { e.out = w }

// Depth returns the number of active call frames.
func (e *Engine) Depth() int { return len(e.frames) }

// PushScope pushes an empty call frame.
func (e *Engine) PushScope() {
	e.frames = append(e.frames, NewScope())
	e.logger.TraceContext(e.ctx, "push scope", slog.Int("depth", len(e.frames)))
}

// PopScope pops the innermost call frame. It reports false, and changes
// nothing, when no call frame is active.
func (e *Engine) PopScope() bool {
	if len(e.frames) == 0 {
		e.logger.DebugContext(e.ctx, "nothing to pop")

		return false
	}

	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
	e.logger.TraceContext(e.ctx, "pop scope", slog.Int("depth", len(e.frames)))

	return true
}

// top returns the frame that receives new bindings.
func (e *Engine) top() *Scope {
	if n := len(e.frames); n > 0 {
		return e.frames[n-1]
	}

	return e.global
}

// SetVar binds v to name in the innermost frame.
func (e *Engine) SetVar(name string, v value.Value) { e.top().SetVar(name, v) }

// SetFunc defines f in the innermost frame.
func (e *Engine) SetFunc(f ast.Function) { e.top().SetFunc(f) }

// Var resolves name from the innermost frame outward.
func (e *Engine) Var(name string) (value.Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i].Var(name); ok {
			return v, true
		}
	}

	return e.global.Var(name)
}

// Func resolves name from the innermost frame outward.
func (e *Engine) Func(name string) (ast.Function, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if f, ok := e.frames[i].Func(name); ok {
			return f, true
		}
	}

	return e.global.Func(name)
}

// Names returns the sorted, distinct names of every visible variable and
// function.
func (e *Engine) Names() (vars, funcs []string) {
	seenVar := make(map[string]struct{})
	seenFunc := make(map[string]struct{})

	for _, s := range append([]*Scope{e.global}, e.frames...) {
		for _, name := range s.VarNames() {
			seenVar[name] = struct{}{}
		}

		for _, name := range s.FuncNames() {
			seenFunc[name] = struct{}{}
		}
	}

	return sortedKeys(seenVar), sortedKeys(seenFunc)
}

// EvalFunc calls the function named by ident with already evaluated
// arguments.
//
// Supplying more arguments than the function declares fails before anything
// is evaluated; supplying fewer leaves the trailing parameters unbound. The
// call frame is popped on every return path.
func (e *Engine) EvalFunc(ident ast.Node[string], args []value.Value) (value.Value, error) {
	name := ident.Item()

	f, ok := e.Func(name)
	if !ok {
		return nil, ErrUnknownFunction.At(ident.Span()).Labelf("no function named %q", name)
	}

	if n := f.ParamCount(); n >= 0 && len(args) > n {
		return nil, ErrParameterCount.At(ident.Span()).
			Labelf("%s takes at most %d argument(s), found %d", name, n, len(args)).
			With(slog.Int("expected", n), slog.Int("found", len(args)))
	}

	if e.maxDepth > 0 && len(e.frames) >= e.maxDepth {
		return nil, ErrCallDepth.At(ident.Span()).
			Labelf("calling %s would exceed %d nested calls", name, e.maxDepth)
	}

	e.logger.TraceContext(e.ctx, "call",
		slog.String("func", name),
		slog.Int("args", len(args)),
		slog.Int("depth", len(e.frames)+1),
	)

	e.PushScope()
	defer e.PopScope()

	switch f := f.(type) {
	case ast.Native:
		v, err := f.Call(args)
		if err != nil {
			return nil, ErrNativeCall.At(ident.Span()).Labelf("%s: %v", name, err).Wrap(err)
		}

		if v == nil {
			v = value.None{}
		}

		return v, nil

	case ast.Custom:
		for i, arg := range args {
			e.SetVar(f.Params[i].Item(), arg)
		}

		var result value.Value = value.None{}

		for _, stmt := range f.Body {
			v, err := e.EvalStatement(stmt)
			if err != nil {
				return nil, err
			}

			result = v
		}

		return result, nil
	}

	return nil, ErrUnknownFunction.At(ident.Span()).Labelf("%q is not callable", name)
}

// EvalStatement executes one statement and returns its value. Only
// expression statements yield something other than none.
func (e *Engine) EvalStatement(node ast.Node[ast.Statement]) (value.Value, error) {
	switch s := node.Item().(type) {
	case ast.ExprStmt:
		return e.Eval(s.X)

	case ast.FuncStmt:
		e.SetFunc(s.Func.Item())

		return value.None{}, nil

	case ast.LetStmt:
		return value.None{}, e.bind(s.Ident.Item(), s.Value)

	case ast.AssignStmt:
		return value.None{}, e.bind(s.Ident.Item(), s.Value)

	case ast.WhileStmt:
		for {
			ok, err := e.cond(s.Cond)
			if err != nil || !ok {
				return value.None{}, err
			}

			for _, stmt := range s.Body {
				if _, err := e.EvalStatement(stmt); err != nil {
					return nil, err
				}
			}
		}
	}

	return value.None{}, nil
}

// Exec executes each statement of program in order and returns the value of
// the last one. It stops at the first error.
func (e *Engine) Exec(program []ast.Node[ast.Statement]) (value.Value, error) {
	var result value.Value = value.None{}

	for _, stmt := range program {
		v, err := e.EvalStatement(stmt)
		if err != nil {
			return nil, err
		}

		result = v
	}

	return result, nil
}

func (e *Engine) bind(name string, x ast.Node[ast.Expr]) error {
	v, err := e.Eval(x)
	if err != nil {
		return err
	}

	e.SetVar(name, v)

	return nil
}

// cond evaluates a condition, which must yield a bool.
func (e *Engine) cond(x ast.Node[ast.Expr]) (bool, error) {
	v, err := e.Eval(x)
	if err != nil {
		return false, err
	}

	b, ok := v.(value.Bool)
	if !ok {
		return false, ErrTypeMismatch.At(x.Span()).
			Labelf("expected %s, found %s", value.TypeBool, v.TypeName())
	}

	return bool(b), nil
}
