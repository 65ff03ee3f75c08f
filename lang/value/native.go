package value

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// Equal reports whether a and b have the same type and the same value.
// Unlike the language's == operator it never crosses types, so Int 1 and
// Float 1 are not Equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case None:
		_, ok := b.(None)

		return ok

	case Bool:
		b, ok := b.(Bool)

		return ok && a == b

	case String:
		b, ok := b.(String)

		return ok && a == b

	case Int:
		b, ok := b.(Int)

		return ok && a.Big().Cmp(b.Big()) == 0

	case Float:
		b, ok := b.(Float)

		return ok && a.Decimal().Cmp(b.Decimal()) == 0
	}

	return false
}

// ToNative converts v to a plain Go value suitable for encoding:
// nil, bool, string, int64 (or its decimal text when out of range),
// or float64.
func ToNative(v Value) any {
	switch v := v.(type) {
	case None:
		return nil

	case Bool:
		return bool(v)

	case String:
		return string(v)

	case Int:
		if v.Big().IsInt64() {
			return v.Big().Int64()
		}

		return v.String()

	case Float:
		f, err := v.Decimal().Float64()
		if err != nil || math.IsInf(f, 0) {
			return v.String()
		}

		return f
	}

	return nil
}

// FromNative converts a plain Go value to a Value.
// It reports false for types that have no counterpart.
func FromNative(x any) (Value, bool) {
	switch x := x.(type) {
	case nil:
		return None{}, true

	case bool:
		return Bool(x), true

	case string:
		return String(x), true

	case int:
		return NewInt(int64(x)), true

	case int64:
		return NewInt(x), true

	case float64:
		d, err := new(apd.Decimal).SetFloat64(x)
		if err != nil {
			return nil, false
		}

		return FloatOf(d), true
	}

	return nil, false
}
