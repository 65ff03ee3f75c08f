package ast

import (
	"io"
	"strings"
)

// Format writes program to w as canonical source text.
//
// Block bodies are indented by indent spaces per level, or by a tab when
// indent is not positive. Parentheses are emitted only where operator
// precedence requires them, so formatting then re-parsing yields an
// equivalent tree.
func Format(w io.Writer, program []Node[Statement], indent int) error {
	p := printer{unit: "\t"}
	if indent > 0 {
		p.unit = strings.Repeat(" ", indent)
	}

	for _, stmt := range program {
		p.statement(stmt, 0)
	}

	_, err := io.WriteString(w, p.String())

	return err
}

// FormatExpr returns the canonical source text of e.
func FormatExpr(e Node[Expr]) string {
	var p printer

	p.expr(e, PrecAssign)

	return p.String()
}

type printer struct {
	strings.Builder

	unit string
}

func (p *printer) line(depth int) {
	p.WriteString(strings.Repeat(p.unit, depth))
}

func (p *printer) statement(n Node[Statement], depth int) {
	p.line(depth)

	switch s := n.Item().(type) {
	case ExprStmt:
		p.expr(s.X, PrecAssign)
		p.WriteByte('\n')

	case LetStmt:
		p.WriteString("let " + s.Ident.Item() + " = ")
		p.expr(s.Value, PrecAssign)
		p.WriteByte('\n')

	case AssignStmt:
		p.WriteString(s.Ident.Item() + " = ")
		p.expr(s.Value, PrecAssign)
		p.WriteByte('\n')

	case FuncStmt:
		switch f := s.Func.Item().(type) {
		case Custom:
			params := make([]string, len(f.Params))
			for i, param := range f.Params {
				params[i] = param.Item()
			}

			p.WriteString("fn " + f.Name() + "(" + strings.Join(params, ", ") + "):")
			p.block(f.Body, depth)

		case Native:
			p.WriteString("# native " + f.Name() + "\n")
		}

	case WhileStmt:
		p.WriteString("while ")
		p.expr(s.Cond, PrecAssign)
		p.WriteByte(':')
		p.block(s.Body, depth)
	}
}

func (p *printer) block(body []Node[Statement], depth int) {
	if len(body) == 0 {
		p.WriteString(" none\n")

		return
	}

	p.WriteByte('\n')

	for _, stmt := range body {
		p.statement(stmt, depth+1)
	}
}

// expr writes n, parenthesized if it binds looser than prec.
func (p *printer) expr(n Node[Expr], prec int) {
	e := n.Item()

	if Precedence(e) < prec {
		p.WriteByte('(')
		defer p.WriteByte(')')
	}

	switch e := e.(type) {
	case None:
		p.WriteString("none")

	case Bool:
		if e.Value {
			p.WriteString("true")
		} else {
			p.WriteString("false")
		}

	case Int:
		p.WriteString(e.Value.String())

	case Float:
		text := e.Value.Text('f')
		if !strings.ContainsRune(text, '.') {
			text += ".0"
		}

		p.WriteString(text)

	case String:
		p.WriteString(Quote(e.Value))

	case Var:
		p.WriteString(e.Name)

	case Call:
		p.WriteString(e.Ident.Item() + "(")

		for i, arg := range e.Args {
			if i > 0 {
				p.WriteString(", ")
			}

			p.expr(arg, PrecAssign)
		}

		p.WriteByte(')')

	case Unary:
		p.WriteString(e.Op.String())
		p.expr(e.Operand, PrecUnary)

	case Binary:
		prec := e.Op.Precedence()
		left, right := prec, prec+1

		if e.Op == Pow {
			left, right = PrecUnary, prec
		}

		p.expr(e.Left, left)
		p.WriteString(" " + e.Op.String() + " ")
		p.expr(e.Right, right)

	case Assign:
		p.WriteString(e.Target.Item() + " = ")
		p.expr(e.Value, PrecAssign)

	case Walrus:
		p.WriteString(e.Target.Item() + " := ")
		p.expr(e.Value, PrecAssign)

	case Ternary:
		p.expr(e.Cond, PrecOr)
		p.WriteString(" ? ")
		p.expr(e.Then, PrecTernary)
		p.WriteString(" : ")
		p.expr(e.Else, PrecTernary)
	}
}

// Quote returns s as a string literal, escaping only what the lexer
// requires.
func Quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
