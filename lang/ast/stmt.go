package ast

import "github.com/ardnew/boba/lang/value"

// Statement is a top-level or block-level statement.
type Statement interface{ stmt() }

type (
	// ExprStmt evaluates X and yields its value.
	ExprStmt struct{ X Node[Expr] }

	// FuncStmt defines a function in the current frame.
	FuncStmt struct{ Func Node[Function] }

	// LetStmt binds Value to Ident in the current frame.
	LetStmt struct {
		Ident Node[string]
		Value Node[Expr]
	}

	// AssignStmt binds Value to Ident in the current frame, like [LetStmt].
	AssignStmt struct {
		Ident Node[string]
		Value Node[Expr]
	}

	// WhileStmt runs Body while Cond evaluates to true.
	WhileStmt struct {
		Cond Node[Expr]
		Body []Node[Statement]
	}
)

func (ExprStmt) stmt()   {}
func (FuncStmt) stmt()   {}
func (LetStmt) stmt()    {}
func (AssignStmt) stmt() {}
func (WhileStmt) stmt()  {}

// Variadic is the parameter count of a native function that accepts any
// number of arguments.
const Variadic = -1

// NativeFunc is the callback of a native function.
// A returned error becomes a native-call failure at the call site.
type NativeFunc func(args []value.Value) (value.Value, error)

// Function is a callable definition.
type Function interface {
	// Name returns the identifier the function is registered under.
	Name() string
	// ParamCount returns the maximum number of arguments accepted,
	// or a negative number if there is no maximum.
	ParamCount() int

	function()
}

// Native is a host-provided function.
type Native struct {
	Ident  string
	Params int
	Call   NativeFunc
}

// Custom is a function defined in source.
type Custom struct {
	Ident  Node[string]
	Params []Node[string]
	Body   []Node[Statement]
}

// NewNative returns a native function accepting at most params arguments.
// Use [Variadic] for no limit.
func NewNative(name string, params int, call NativeFunc) Native {
	return Native{Ident: name, Params: params, Call: call}
}

func (f Native) Name() string    { return f.Ident }
func (f Native) ParamCount() int { return f.Params }
func (Native) function()         {}

func (f Custom) Name() string    { return f.Ident.Item() }
func (f Custom) ParamCount() int { return len(f.Params) }
func (Custom) function()         {}
