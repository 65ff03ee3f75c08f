package ast

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// Expr is an expression.
type Expr interface{ expr() }

type (
	// None is the literal none.
	None struct{}

	// Bool is a boolean literal.
	Bool struct{ Value bool }

	// Int is an integer literal.
	Int struct{ Value *big.Int }

	// Float is a decimal literal.
	Float struct{ Value *apd.Decimal }

	// String is a string literal with escapes already resolved.
	String struct{ Value string }

	// Var is a variable reference.
	Var struct{ Name string }

	// Call invokes the function named by Ident.
	Call struct {
		Ident Node[string]
		Args  []Node[Expr]
	}

	// Unary applies a prefix operator.
	Unary struct {
		Op      UnaryOp
		Operand Node[Expr]
	}

	// Binary applies an infix operator.
	Binary struct {
		Op          BinaryOp
		Left, Right Node[Expr]
	}

	// Assign binds Value to Target and evaluates to none.
	Assign struct {
		Target Node[string]
		Value  Node[Expr]
	}

	// Walrus binds Value to Target and evaluates to the bound value.
	Walrus struct {
		Target Node[string]
		Value  Node[Expr]
	}

	// Ternary evaluates exactly one of Then or Else depending on Cond.
	Ternary struct {
		Cond, Then, Else Node[Expr]
	}
)

func (None) expr()    {}
func (Bool) expr()    {}
func (Int) expr()     {}
func (Float) expr()   {}
func (String) expr()  {}
func (Var) expr()     {}
func (Call) expr()    {}
func (Unary) expr()   {}
func (Binary) expr()  {}
func (Assign) expr()  {}
func (Walrus) expr()  {}
func (Ternary) expr() {}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Neg UnaryOp = iota // -
	Not                // !
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	}

	return "?"
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	Add  BinaryOp = iota // +
	Sub                  // -
	Mul                  // *
	Div                  // /
	Mod                  // %
	Pow                  // **
	Eq                   // ==
	Lt                   // <
	Gt                   // >
	NEq                  // !=
	LtEq                 // <=
	GtEq                 // >=
	And                  // and
	Or                   // or
)

var binaryOps = [...]string{
	Add:  "+",
	Sub:  "-",
	Mul:  "*",
	Div:  "/",
	Mod:  "%",
	Pow:  "**",
	Eq:   "==",
	Lt:   "<",
	Gt:   ">",
	NEq:  "!=",
	LtEq: "<=",
	GtEq: ">=",
	And:  "and",
	Or:   "or",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOps) {
		return binaryOps[op]
	}

	return "?"
}

// IsComparison reports whether op is one of == < > != <= >=.
func (op BinaryOp) IsComparison() bool { return op >= Eq && op <= GtEq }

// Precedence tiers, loosest first. Higher binds tighter.
const (
	PrecAssign = iota + 1
	PrecTernary
	PrecOr
	PrecAnd
	PrecCompare
	PrecSum
	PrecProduct
	PrecPow
	PrecUnary
	PrecAtom
)

// Precedence returns the binding tier of op.
func (op BinaryOp) Precedence() int {
	switch op {
	case Or:
		return PrecOr
	case And:
		return PrecAnd
	case Add, Sub:
		return PrecSum
	case Mul, Div, Mod:
		return PrecProduct
	case Pow:
		return PrecPow
	default:
		return PrecCompare
	}
}

// Precedence returns the binding tier of the outermost operator of e.
func Precedence(e Expr) int {
	switch e := e.(type) {
	case Assign, Walrus:
		return PrecAssign
	case Ternary:
		return PrecTernary
	case Binary:
		return e.Op.Precedence()
	case Unary:
		return PrecUnary
	default:
		return PrecAtom
	}
}
