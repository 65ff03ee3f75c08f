package ast

import "github.com/ardnew/boba/lang/source"

// ToMap converts program to nested maps and slices of plain Go values,
// suitable for encoding as JSON or YAML.
func ToMap(program []Node[Statement]) []any {
	out := make([]any, len(program))
	for i, stmt := range program {
		out[i] = StatementMap(stmt)
	}

	return out
}

func spanMap(s source.Span) map[string]any {
	return map[string]any{"start": s.Start, "end": s.End}
}

func identMap(n Node[string]) map[string]any {
	return map[string]any{"name": n.Item(), "span": spanMap(n.Span())}
}

// StatementMap converts one statement to a map.
func StatementMap(n Node[Statement]) map[string]any {
	m := map[string]any{"span": spanMap(n.Span())}

	switch s := n.Item().(type) {
	case ExprStmt:
		m["kind"] = "expr"
		m["expr"] = ExprMap(s.X)

	case LetStmt:
		m["kind"] = "let"
		m["ident"] = identMap(s.Ident)
		m["value"] = ExprMap(s.Value)

	case AssignStmt:
		m["kind"] = "assign"
		m["ident"] = identMap(s.Ident)
		m["value"] = ExprMap(s.Value)

	case FuncStmt:
		m["kind"] = "fn"
		m["name"] = s.Func.Item().Name()

		if f, ok := s.Func.Item().(Custom); ok {
			params := make([]any, len(f.Params))
			for i, p := range f.Params {
				params[i] = identMap(p)
			}

			m["params"] = params
			m["body"] = ToMap(f.Body)
		}

	case WhileStmt:
		m["kind"] = "while"
		m["cond"] = ExprMap(s.Cond)
		m["body"] = ToMap(s.Body)
	}

	return m
}

// ExprMap converts one expression to a map.
func ExprMap(n Node[Expr]) map[string]any {
	m := map[string]any{"span": spanMap(n.Span())}

	switch e := n.Item().(type) {
	case None:
		m["kind"] = "none"

	case Bool:
		m["kind"] = "bool"
		m["value"] = e.Value

	case Int:
		m["kind"] = "int"
		m["value"] = e.Value.String()

	case Float:
		m["kind"] = "float"
		m["value"] = e.Value.Text('f')

	case String:
		m["kind"] = "string"
		m["value"] = e.Value

	case Var:
		m["kind"] = "var"
		m["name"] = e.Name

	case Call:
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			args[i] = ExprMap(a)
		}

		m["kind"] = "call"
		m["ident"] = identMap(e.Ident)
		m["args"] = args

	case Unary:
		m["kind"] = "unary"
		m["op"] = e.Op.String()
		m["operand"] = ExprMap(e.Operand)

	case Binary:
		m["kind"] = "binary"
		m["op"] = e.Op.String()
		m["left"] = ExprMap(e.Left)
		m["right"] = ExprMap(e.Right)

	case Assign:
		m["kind"] = "assign"
		m["target"] = identMap(e.Target)
		m["value"] = ExprMap(e.Value)

	case Walrus:
		m["kind"] = "walrus"
		m["target"] = identMap(e.Target)
		m["value"] = ExprMap(e.Value)

	case Ternary:
		m["kind"] = "ternary"
		m["cond"] = ExprMap(e.Cond)
		m["then"] = ExprMap(e.Then)
		m["else"] = ExprMap(e.Else)
	}

	return m
}
