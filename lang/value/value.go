// Package value defines the run-time values of the boba language.
//
// A [Value] is one of [None], [Bool], [Int], [Float], or [String]. Values are
// immutable: arithmetic always allocates a new result, so a Value may be
// copied and shared freely.
package value

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Type names reported by [Value.TypeName].
const (
	TypeNone   = "none"
	TypeBool   = "bool"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
)

// Value is a run-time value.
type Value interface {
	// TypeName returns one of none, bool, int, float, or string.
	TypeName() string
	// String returns the display form of the value.
	String() string

	value()
}

// None is the unit value.
type None struct{}

// Bool is a boolean value.
type Bool bool

// String is a text value.
type String string

// Int is an arbitrary-precision signed integer.
type Int struct{ x *big.Int }

// Float is an arbitrary-precision decimal.
type Float struct{ d *apd.Decimal }

func (None) value()   {}
func (Bool) value()   {}
func (String) value() {}
func (Int) value()    {}
func (Float) value()  {}

func (None) TypeName() string   { return TypeNone }
func (Bool) TypeName() string   { return TypeBool }
func (String) TypeName() string { return TypeString }
func (Int) TypeName() string    { return TypeInt }
func (Float) TypeName() string  { return TypeFloat }

func (None) String() string { return "none" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (s String) String() string { return string(s) }

// NewInt returns the Int with value i.
func NewInt(i int64) Int { return Int{big.NewInt(i)} }

// IntOf returns an Int holding x. The caller must not modify x afterward.
func IntOf(x *big.Int) Int { return Int{x} }

// ParseInt parses a base-10 integer literal.
func ParseInt(s string) (Int, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}

	return Int{x}, nil
}

// Big returns the integer as a [big.Int], which must not be modified.
func (i Int) Big() *big.Int {
	if i.x == nil {
		return new(big.Int)
	}

	return i.x
}

// Decimal returns i converted to a decimal.
func (i Int) Decimal() *apd.Decimal {
	var coeff apd.BigInt

	return apd.NewWithBigInt(coeff.SetMathBigInt(i.Big()), 0)
}

func (i Int) String() string { return i.Big().String() }

// NewFloat returns the Float coeff × 10^exp.
func NewFloat(coeff int64, exp int32) Float { return Float{apd.New(coeff, exp)} }

// FloatOf returns a Float holding d. The caller must not modify d afterward.
func FloatOf(d *apd.Decimal) Float { return Float{d} }

// ParseFloat parses a decimal literal such as "1.5" or "2.5e-3".
func ParseFloat(s string) (Float, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Float{}, err
	}

	return Float{d}, nil
}

// Decimal returns the decimal, which must not be modified.
func (f Float) Decimal() *apd.Decimal {
	if f.d == nil {
		return new(apd.Decimal)
	}

	return f.d
}

// String formats f in plain notation without trailing fractional zeros.
func (f Float) String() string {
	var r apd.Decimal

	r.Reduce(f.Decimal())

	if r.IsZero() {
		r.Negative = false
	}

	return r.Text('f')
}

// FromBool returns 1 for true and 0 for false.
func FromBool(b Bool) Int {
	if b {
		return NewInt(1)
	}

	return NewInt(0)
}

// Quote returns the display form of v, with strings quoted and escaped.
func Quote(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}

	return v.String()
}
