package ast

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/lang/value"
)

func at(start, end int) source.Span { return source.Span{Start: start, End: end} }

func intExpr(i int64) Node[Expr] { return NewNode[Expr](at(0, 1), Int{big.NewInt(i)}) }

func varExpr(name string) Node[Expr] { return NewNode[Expr](at(0, 1), Var{name}) }

func binary(op BinaryOp, l, r Node[Expr]) Node[Expr] {
	return NewNode[Expr](l.Span().Union(r.Span()), Binary{op, l, r})
}

func TestNode_Accessors(t *testing.T) {
	n := NewNode(at(3, 7), "abc")

	if n.Item() != "abc" {
		t.Errorf("Item() = %q", n.Item())
	}

	if n.Span() != at(3, 7) {
		t.Errorf("Span() = %v", n.Span())
	}
}

func TestFormatExpr_Parentheses(t *testing.T) {
	one, two, three := intExpr(1), intExpr(2), intExpr(3)

	tests := []struct {
		name string
		expr Node[Expr]
		want string
	}{
		{"left assoc sum", binary(Sub, binary(Sub, one, two), three), "1 - 2 - 3"},
		{"right grouped sum", binary(Sub, one, binary(Sub, two, three)), "1 - (2 - 3)"},
		{"product in sum", binary(Add, one, binary(Mul, two, three)), "1 + 2 * 3"},
		{"sum in product", binary(Mul, binary(Add, one, two), three), "(1 + 2) * 3"},
		{"right assoc pow", binary(Pow, one, binary(Pow, two, three)), "1 ** 2 ** 3"},
		{"left grouped pow", binary(Pow, binary(Pow, one, two), three), "(1 ** 2) ** 3"},
		{"chained comparison", binary(Lt, binary(Lt, one, two), three), "1 < 2 < 3"},
		{
			"negated pow",
			NewNode[Expr](at(0, 1), Unary{Neg, binary(Pow, two, two)}),
			"-(2 ** 2)",
		},
		{
			"pow of negation",
			binary(Pow, NewNode[Expr](at(0, 1), Unary{Neg, two}), two),
			"-2 ** 2",
		},
		{
			"walrus operand",
			binary(Add, one, NewNode[Expr](at(0, 1), Walrus{NewNode(at(0, 1), "x"), two})),
			"1 + (x := 2)",
		},
		{
			"ternary",
			NewNode[Expr](at(0, 1), Ternary{
				binary(Or, varExpr("a"), varExpr("b")), one, two,
			}),
			"a or b ? 1 : 2",
		},
		{
			"call",
			NewNode[Expr](at(0, 1), Call{
				NewNode(at(0, 1), "f"),
				[]Node[Expr]{one, NewNode[Expr](at(0, 1), String{"a\"b\n"})},
			}),
			`f(1, "a\"b\n")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatExpr(tt.expr); got != tt.want {
				t.Errorf("FormatExpr() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormat_Blocks(t *testing.T) {
	body := []Node[Statement]{
		NewNode[Statement](at(0, 1), ExprStmt{binary(Add, varExpr("a"), varExpr("b"))}),
	}

	program := []Node[Statement]{
		NewNode[Statement](at(0, 1), FuncStmt{NewNode[Function](at(0, 1), Custom{
			Ident:  NewNode(at(0, 1), "add"),
			Params: []Node[string]{NewNode(at(0, 1), "a"), NewNode(at(0, 1), "b")},
			Body:   body,
		})}),
		NewNode[Statement](at(0, 1), LetStmt{NewNode(at(0, 1), "i"), intExpr(0)}),
		NewNode[Statement](at(0, 1), WhileStmt{
			binary(Lt, varExpr("i"), intExpr(3)),
			[]Node[Statement]{
				NewNode[Statement](at(0, 1), AssignStmt{
					NewNode(at(0, 1), "i"), binary(Add, varExpr("i"), intExpr(1)),
				}),
			},
		}),
	}

	var buf bytes.Buffer
	if err := Format(&buf, program, 4); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "fn add(a, b):\n    a + b\nlet i = 0\nwhile i < 3:\n    i = i + 1\n"
	if buf.String() != want {
		t.Errorf("Format() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFunction_ParamCount(t *testing.T) {
	n := NewNative("print", Variadic, func([]value.Value) (value.Value, error) {
		return value.None{}, nil
	})

	if n.Name() != "print" || n.ParamCount() >= 0 {
		t.Errorf("native = %s/%d", n.Name(), n.ParamCount())
	}

	c := Custom{
		Ident:  NewNode(at(0, 1), "f"),
		Params: []Node[string]{NewNode(at(0, 1), "x")},
	}

	if c.Name() != "f" || c.ParamCount() != 1 {
		t.Errorf("custom = %s/%d", c.Name(), c.ParamCount())
	}
}

func TestToMap(t *testing.T) {
	program := []Node[Statement]{
		NewNode[Statement](at(0, 5), ExprStmt{binary(Add, intExpr(1), intExpr(2))}),
	}

	m := ToMap(program)
	if len(m) != 1 {
		t.Fatalf("ToMap() len = %d", len(m))
	}

	stmt := m[0].(map[string]any)
	if stmt["kind"] != "expr" {
		t.Errorf("kind = %v", stmt["kind"])
	}

	expr := stmt["expr"].(map[string]any)
	if expr["kind"] != "binary" || expr["op"] != "+" {
		t.Errorf("expr = %v", expr)
	}

	left := expr["left"].(map[string]any)
	if left["value"] != "1" {
		t.Errorf("left = %v", left)
	}
}
