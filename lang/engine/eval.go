package engine

import (
	"log/slog"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/value"
)

// Eval evaluates an expression.
//
// Operands are evaluated left to right and both sides of and/or are always
// evaluated. Only the ternary operator skips a subexpression.
func (e *Engine) Eval(node ast.Node[ast.Expr]) (value.Value, error) {
	switch x := node.Item().(type) {
	case ast.None:
		return value.None{}, nil

	case ast.Bool:
		return value.Bool(x.Value), nil

	case ast.Int:
		return value.IntOf(x.Value), nil

	case ast.Float:
		return value.FloatOf(x.Value), nil

	case ast.String:
		return value.String(x.Value), nil

	case ast.Var:
		v, ok := e.Var(x.Name)
		if !ok {
			return nil, ErrUnknownVariable.At(node.Span()).Labelf("no variable named %q", x.Name)
		}

		return v, nil

	case ast.Call:
		args := make([]value.Value, 0, len(x.Args))

		for _, arg := range x.Args {
			v, err := e.Eval(arg)
			if err != nil {
				return nil, err
			}

			args = append(args, v)
		}

		return e.EvalFunc(x.Ident, args)

	case ast.Unary:
		v, err := e.Eval(x.Operand)
		if err != nil {
			return nil, err
		}

		r, uerr := e.unary(x.Op, v)
		if uerr != nil {
			return nil, uerr.At(node.Span())
		}

		return r, nil

	case ast.Binary:
		l, err := e.Eval(x.Left)
		if err != nil {
			return nil, err
		}

		r, err := e.Eval(x.Right)
		if err != nil {
			return nil, err
		}

		v, berr := e.binary(x.Op, l, r)
		if berr != nil {
			return nil, berr.At(node.Span())
		}

		e.logger.TraceContext(e.ctx, "binary",
			slog.String("op", x.Op.String()),
			slog.String("result", v.TypeName()),
		)

		return v, nil

	case ast.Assign:
		return value.None{}, e.bind(x.Target.Item(), x.Value)

	case ast.Walrus:
		v, err := e.Eval(x.Value)
		if err != nil {
			return nil, err
		}

		e.SetVar(x.Target.Item(), v)

		return v, nil

	case ast.Ternary:
		ok, err := e.cond(x.Cond)
		if err != nil {
			return nil, err
		}

		if ok {
			return e.Eval(x.Then)
		}

		return e.Eval(x.Else)
	}

	return value.None{}, nil
}
