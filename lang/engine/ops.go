package engine

import (
	"log/slog"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/lang/value"
)

func (e *Engine) unary(op ast.UnaryOp, v value.Value) (value.Value, *source.Error) {
	switch op {
	case ast.Not:
		if b, ok := v.(value.Bool); ok {
			return !b, nil
		}

	case ast.Neg:
		switch v := v.(type) {
		case value.Int:
			return value.IntOf(new(big.Int).Neg(v.Big())), nil
		case value.Float:
			return value.FloatOf(new(apd.Decimal).Neg(v.Decimal())), nil
		}
	}

	return nil, ErrInvalidUnary.
		Labelf("cannot apply '%s' to %s", op, v.TypeName()).
		With(slog.String("op", op.String()), slog.String("operand", v.TypeName()))
}

func invalidBinary(op ast.BinaryOp, l, r value.Value) *source.Error {
	return ErrInvalidBinary.
		Labelf("cannot apply '%s' to %s and %s", op, l.TypeName(), r.TypeName()).
		With(
			slog.String("op", op.String()),
			slog.String("left", l.TypeName()),
			slog.String("right", r.TypeName()),
		)
}

func arithmetic(op ast.BinaryOp, reason string) *source.Error {
	return ErrArithmetic.Labelf("'%s': %s", op, reason).With(slog.String("op", op.String()))
}

// binary applies op to operands that are already evaluated, following the
// coercion table of the language.
func (e *Engine) binary(op ast.BinaryOp, l, r value.Value) (value.Value, *source.Error) {
	switch {
	case op.IsComparison():
		return compare(op, l, r)

	case op == ast.And || op == ast.Or:
		lb, lok := l.(value.Bool)
		rb, rok := r.(value.Bool)

		if !lok || !rok {
			return nil, invalidBinary(op, l, r)
		}

		if op == ast.And {
			return lb && rb, nil
		}

		return lb || rb, nil
	}

	switch lv := l.(type) {
	case value.Int:
		switch rv := r.(type) {
		case value.Bool:
			if isRing(op) {
				return e.integer(op, lv.Big(), value.FromBool(rv).Big())
			}

		case value.Int:
			if isRing(op) || op == ast.Mod {
				return e.integer(op, lv.Big(), rv.Big())
			}

			return e.decimal(op, lv.Decimal(), rv.Decimal())

		case value.Float:
			return e.decimal(op, lv.Decimal(), rv.Decimal())
		}

	case value.Float:
		switch rv := r.(type) {
		case value.Bool:
			if isRing(op) {
				return e.decimal(op, lv.Decimal(), value.FromBool(rv).Decimal())
			}

		case value.Int:
			return e.decimal(op, lv.Decimal(), rv.Decimal())

		case value.Float:
			return e.decimal(op, lv.Decimal(), rv.Decimal())
		}

	case value.String:
		switch op {
		case ast.Add:
			if _, ok := r.(value.None); !ok {
				return lv + value.String(r.String()), nil
			}

		case ast.Mul:
			switch rv := r.(type) {
			case value.Bool:
				return e.repeat(lv, value.FromBool(rv).Big()), nil
			case value.Int:
				return e.repeat(lv, rv.Big()), nil
			}
		}
	}

	return nil, invalidBinary(op, l, r)
}

// isRing reports whether op is one of + - *, the operators that also accept
// a bool right operand.
func isRing(op ast.BinaryOp) bool {
	return op == ast.Add || op == ast.Sub || op == ast.Mul
}

func (e *Engine) integer(op ast.BinaryOp, x, y *big.Int) (value.Value, *source.Error) {
	z := new(big.Int)

	switch op {
	case ast.Add:
		z.Add(x, y)
	case ast.Sub:
		z.Sub(x, y)
	case ast.Mul:
		z.Mul(x, y)
	case ast.Mod:
		if y.Sign() == 0 {
			return nil, arithmetic(op, "modulo by zero")
		}

		// big.Int.Mod is the Euclidean modulus.
		z.Mod(x, y)
	}

	return value.IntOf(z), nil
}

func (e *Engine) decimal(op ast.BinaryOp, x, y *apd.Decimal) (value.Value, *source.Error) {
	var (
		z   = new(apd.Decimal)
		err error
	)

	switch op {
	case ast.Add:
		_, err = e.exact(sumDigits(x, y)).Add(z, x, y)
	case ast.Sub:
		_, err = e.exact(sumDigits(x, y)).Sub(z, x, y)
	case ast.Mul:
		_, err = e.exact(digits(x) + digits(y)).Mul(z, x, y)

	case ast.Div:
		if y.IsZero() {
			return nil, arithmetic(op, "division by zero")
		}

		_, err = e.dec.Quo(z, x, y)

	case ast.Mod:
		if y.IsZero() {
			return nil, arithmetic(op, "modulo by zero")
		}

		ctx := e.exact(remDigits(x, y))
		if _, err = ctx.Rem(z, x, y); err == nil && z.Negative && !z.IsZero() {
			_, err = ctx.Add(z, z, new(apd.Decimal).Abs(y))
		}

	case ast.Pow:
		if x.IsZero() && y.Negative && !y.IsZero() {
			return nil, arithmetic(op, "zero raised to a negative power")
		}

		_, err = e.dec.Pow(z, x, y)

	default:
		return nil, invalidBinary(op, value.FloatOf(x), value.FloatOf(y))
	}

	if err != nil {
		return nil, arithmetic(op, err.Error()).Wrap(err)
	}

	if z.Form != apd.Finite {
		return nil, arithmetic(op, "result is not finite")
	}

	return value.FloatOf(z), nil
}

// exact returns the decimal context widened to at least n significant
// digits. Division and exponentiation keep the configured precision.
func (e *Engine) exact(n int64) *apd.Context {
	if n <= int64(e.dec.Precision) {
		return e.dec
	}

	return e.dec.WithPrecision(uint32(n))
}

func digits(d *apd.Decimal) int64 { return apd.NumDigits(&d.Coeff) }

// sumDigits bounds the digits of x ± y: the span from the lowest exponent to
// the highest digit of either operand, plus one for a carry.
func sumDigits(x, y *apd.Decimal) int64 {
	hi := max(int64(x.Exponent)+digits(x), int64(y.Exponent)+digits(y))
	lo := min(int64(x.Exponent), int64(y.Exponent))

	return hi - lo + 1
}

// remDigits bounds both the integer quotient of x / y and the remainder, so
// Rem never reports division impossible.
func remDigits(x, y *apd.Decimal) int64 {
	quo := int64(x.Exponent) + digits(x) - int64(y.Exponent) + 1
	rem := sumDigits(x, y)

	return max(quo, rem)
}

// repeat returns s repeated n times. A negative n yields the empty string;
// an n too large for the maximum string length saturates.
func (e *Engine) repeat(s value.String, n *big.Int) value.String {
	if n.Sign() <= 0 || len(s) == 0 {
		return ""
	}

	count := e.maxStringLen / len(s)
	if n.IsInt64() && n.Int64() < int64(count) {
		count = int(n.Int64())
	}

	return value.String(strings.Repeat(string(s), count))
}

func compare(op ast.BinaryOp, l, r value.Value) (value.Value, *source.Error) {
	var c int

	switch lv := l.(type) {
	case value.Int:
		switch rv := r.(type) {
		case value.Int:
			c = lv.Big().Cmp(rv.Big())
		case value.Float:
			c = lv.Decimal().Cmp(rv.Decimal())
		default:
			return nil, invalidBinary(op, l, r)
		}

	case value.Float:
		switch rv := r.(type) {
		case value.Int:
			c = lv.Decimal().Cmp(rv.Decimal())
		case value.Float:
			c = lv.Decimal().Cmp(rv.Decimal())
		default:
			return nil, invalidBinary(op, l, r)
		}

	case value.Bool:
		rv, ok := r.(value.Bool)
		if !ok {
			return nil, invalidBinary(op, l, r)
		}

		c = value.FromBool(lv).Big().Cmp(value.FromBool(rv).Big())

	case value.String:
		rv, ok := r.(value.String)
		if !ok {
			return nil, invalidBinary(op, l, r)
		}

		c = strings.Compare(string(lv), string(rv))

	default:
		return nil, invalidBinary(op, l, r)
	}

	switch op {
	case ast.Eq:
		return value.Bool(c == 0), nil
	case ast.NEq:
		return value.Bool(c != 0), nil
	case ast.Lt:
		return value.Bool(c < 0), nil
	case ast.Gt:
		return value.Bool(c > 0), nil
	case ast.LtEq:
		return value.Bool(c <= 0), nil
	default:
		return value.Bool(c >= 0), nil
	}
}
