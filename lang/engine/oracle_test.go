package engine

import (
	"testing"

	"github.com/expr-lang/expr"

	"github.com/ardnew/boba/lang/value"
)

// Expressions whose meaning is shared with expr-lang for exactly
// representable operands. Operators whose semantics differ, such as % on
// negative operands and inexact decimal fractions, are left out.
var oracleExprs = []string{
	"1 + 2 * 3",
	"10 - 2 * 3",
	"(1 + 2) * (3 + 4) % 5",
	"17 % 5",
	"7 / 2",
	"1 + 2.5",
	"1.5 * 4",
	"2 ** 10",
	"2 ** -1",
	"-(4 - 9)",
	"1 + 2 == 3",
	"5 >= 5.0",
	"3 < 4 and 4 < 5",
	"!(1 == 2)",
	"true or false and false",
	`"ab" + "cd"`,
	`"abc" < "abd"`,
	"1 < 2 ? 10 : 20",
	"false ? 1 : 2 ** 3",
}

func TestEngine_AgreesWithExprLang(t *testing.T) {
	for _, text := range oracleExprs {
		t.Run(text, func(t *testing.T) {
			want, err := expr.Eval(text, nil)
			if err != nil {
				t.Fatalf("expr.Eval(%q) error = %v", text, err)
			}

			if i, ok := want.(int); ok {
				want = int64(i)
			}

			got := value.ToNative(mustRun(t, New(), text))
			if got != want {
				t.Errorf("%s = %#v, expr-lang says %#v", text, got, want)
			}
		})
	}
}
