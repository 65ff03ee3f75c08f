// Package parser turns boba source text into an annotated syntax tree.
//
// [Lexer] produces tokens from a [source.Buffer] and [Parser] consumes them
// with one token of lookahead, building [ast.Node] values whose spans cover
// exactly the tokens they were parsed from. Both report failures as located
// copies of the sentinel errors in this package.
package parser

import (
	"strings"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/lang/token"
	"github.com/ardnew/boba/lang/value"
)

// TokenSource yields tokens in order. [*Lexer] is the usual implementation.
type TokenSource interface {
	Next() (token.Token, error)
}

// Parser is a recursive-descent parser over a [TokenSource].
// It never looks back past the current token.
type Parser struct {
	src    TokenSource
	tok    token.Token // lookahead, valid when peeked
	peeked bool
	last   token.Token // most recently consumed
}

// New returns a parser reading tokens from src.
func New(src TokenSource) *Parser {
	return &Parser{src: src}
}

// Parse parses a whole program from src.
func Parse(src TokenSource) ([]ast.Node[ast.Statement], error) {
	return New(src).ParseProgram()
}

// ParseBuffer parses a whole program from buf.
func ParseBuffer(buf *source.Buffer) ([]ast.Node[ast.Statement], error) {
	return Parse(NewLexer(buf))
}

// ParseExprBuffer parses buf as a single expression followed by the end of
// input.
func ParseExprBuffer(buf *source.Buffer) (ast.Node[ast.Expr], error) {
	p := New(NewLexer(buf))

	x, err := p.ParseExpr()
	if err != nil {
		return x, err
	}

	if err := p.skipNewlines(); err != nil {
		return x, err
	}

	if _, err := p.expect(token.EOF, "end of input"); err != nil {
		return x, err
	}

	return x, nil
}

func (p *Parser) peek() (token.Token, error) {
	if !p.peeked {
		tok, err := p.src.Next()
		if err != nil {
			return token.Token{}, err
		}

		p.tok, p.peeked = tok, true
	}

	return p.tok, nil
}

func (p *Parser) next() (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return token.Token{}, err
	}

	p.peeked = false
	p.last = tok

	return tok, nil
}

// accept consumes the next token if it has kind k.
func (p *Parser) accept(k token.Kind) (token.Token, bool, error) {
	tok, err := p.peek()
	if err != nil || !tok.Is(k) {
		return tok, false, err
	}

	tok, err = p.next()

	return tok, err == nil, err
}

// expect consumes the next token, which must have kind k. The description
// what names the expected token in the error otherwise.
func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}

	if !tok.Is(k) {
		return tok, unexpected(tok, what)
	}

	return p.next()
}

func unexpected(tok token.Token, what string) error {
	if tok.Is(token.EOF) {
		return ErrUnexpectedEnd.At(tok.Span).Labelf("expected %s, found end of input", what)
	}

	return ErrUnexpectedToken.At(tok.Span).Labelf("expected %s, found %s", what, tok.Describe())
}

func (p *Parser) skipNewlines() error {
	for {
		_, ok, err := p.accept(token.Newline)
		if err != nil || !ok {
			return err
		}
	}
}

// ParseProgram parses statements until the end of input.
func (p *Parser) ParseProgram() ([]ast.Node[ast.Statement], error) {
	var program []ast.Node[ast.Statement]

	for {
		if err := p.skipNewlines(); err != nil {
			return program, err
		}

		if _, ok, err := p.accept(token.EOF); err != nil || ok {
			return program, err
		}

		stmt, err := p.ParseStatement()
		if err != nil {
			return program, err
		}

		program = append(program, stmt)

		if err := p.terminate(); err != nil {
			return program, err
		}
	}
}

// terminate consumes the line break after a statement. A statement ending in
// a block has already consumed the Dedent that closed it.
func (p *Parser) terminate() error {
	if p.last.Is(token.Dedent) {
		return nil
	}

	tok, err := p.peek()
	if err != nil {
		return err
	}

	switch tok.Kind {
	case token.Newline:
		_, err = p.next()

		return err
	case token.EOF:
		return nil
	}

	return unexpected(tok, "end of line")
}

// ParseStatement parses one statement.
func (p *Parser) ParseStatement() (ast.Node[ast.Statement], error) {
	tok, err := p.peek()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	switch tok.Kind {
	case token.Let:
		return p.parseLet()
	case token.Fn:
		return p.parseFn()
	case token.While:
		return p.parseWhile()
	}

	x, err := p.ParseExpr()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	if a, ok := x.Item().(ast.Assign); ok {
		return ast.NewNode[ast.Statement](x.Span(), ast.AssignStmt{Ident: a.Target, Value: a.Value}), nil
	}

	return ast.NewNode[ast.Statement](x.Span(), ast.ExprStmt{X: x}), nil
}

func (p *Parser) ident(what string) (ast.Node[string], error) {
	tok, err := p.expect(token.Ident, what)
	if err != nil {
		return ast.Node[string]{}, err
	}

	return ast.NewNode(tok.Span, tok.Text), nil
}

func (p *Parser) parseLet() (ast.Node[ast.Statement], error) {
	let, err := p.next()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	ident, err := p.ident("identifier")
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	if _, err := p.expect(token.Assign, token.Assign.String()); err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	x, err := p.ParseExpr()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	return ast.NewNode[ast.Statement](let.Span.Union(x.Span()), ast.LetStmt{Ident: ident, Value: x}), nil
}

func (p *Parser) parseFn() (ast.Node[ast.Statement], error) {
	fn, err := p.next()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	name, err := p.ident("function name")
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	if _, err := p.expect(token.LParen, token.LParen.String()); err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	var params []ast.Node[string]

	_, closed, err := p.accept(token.RParen)
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	for !closed {
		param, err := p.ident("parameter name")
		if err != nil {
			return ast.Node[ast.Statement]{}, err
		}

		params = append(params, param)

		tok, err := p.next()
		if err != nil {
			return ast.Node[ast.Statement]{}, err
		}

		switch tok.Kind {
		case token.Comma:
		case token.RParen:
			closed = true
		default:
			return ast.Node[ast.Statement]{}, unexpected(tok, "',' or ')'")
		}
	}

	if _, err := p.expect(token.Colon, token.Colon.String()); err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	body, end, err := p.parseBody()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	span := fn.Span.Union(end)
	def := ast.NewNode[ast.Function](span, ast.Custom{Ident: name, Params: params, Body: body})

	return ast.NewNode[ast.Statement](span, ast.FuncStmt{Func: def}), nil
}

func (p *Parser) parseWhile() (ast.Node[ast.Statement], error) {
	while, err := p.next()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	cond, err := p.ParseExpr()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	if _, err := p.expect(token.Colon, token.Colon.String()); err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	body, end, err := p.parseBody()
	if err != nil {
		return ast.Node[ast.Statement]{}, err
	}

	return ast.NewNode[ast.Statement](while.Span.Union(end), ast.WhileStmt{Cond: cond, Body: body}), nil
}

// parseBody parses either an indented block or a single statement on the
// same line. It returns the span of the last statement.
func (p *Parser) parseBody() ([]ast.Node[ast.Statement], source.Span, error) {
	_, block, err := p.accept(token.Newline)
	if err != nil {
		return nil, source.Span{}, err
	}

	if !block {
		stmt, err := p.ParseStatement()

		return []ast.Node[ast.Statement]{stmt}, stmt.Span(), err
	}

	if _, err := p.expect(token.Indent, "indented block"); err != nil {
		return nil, source.Span{}, err
	}

	var body []ast.Node[ast.Statement]

	for {
		stmt, err := p.ParseStatement()
		if err != nil {
			return body, source.Span{}, err
		}

		body = append(body, stmt)

		if !p.last.Is(token.Dedent) {
			tok, err := p.peek()
			if err != nil {
				return body, source.Span{}, err
			}

			switch tok.Kind {
			case token.Newline:
				if _, err := p.next(); err != nil {
					return body, source.Span{}, err
				}
			case token.Dedent:
			default:
				return body, source.Span{}, unexpected(tok, "end of line")
			}
		}

		_, done, err := p.accept(token.Dedent)
		if err != nil {
			return body, source.Span{}, err
		}

		if done {
			return body, stmt.Span(), nil
		}
	}
}

// ParseExpr parses one expression at the loosest binding tier.
func (p *Parser) ParseExpr() (ast.Node[ast.Expr], error) {
	return p.parseAssign()
}

func binary(op ast.BinaryOp, left, right ast.Node[ast.Expr]) ast.Node[ast.Expr] {
	return ast.NewNode[ast.Expr](left.Span().Union(right.Span()), ast.Binary{Op: op, Left: left, Right: right})
}

func (p *Parser) parseAssign() (ast.Node[ast.Expr], error) {
	left, err := p.parseTernary()
	if err != nil {
		return left, err
	}

	tok, err := p.peek()
	if err != nil {
		return left, err
	}

	if !tok.Is(token.Assign) && !tok.Is(token.Walrus) {
		return left, nil
	}

	target, ok := left.Item().(ast.Var)
	if !ok {
		return left, ErrInvalidAssignment.At(tok.Span).Labelf("cannot assign expression to another expression")
	}

	if _, err := p.next(); err != nil {
		return left, err
	}

	right, err := p.parseAssign()
	if err != nil {
		return left, err
	}

	ident := ast.NewNode(left.Span(), target.Name)
	span := left.Span().Union(right.Span())

	if tok.Is(token.Walrus) {
		return ast.NewNode[ast.Expr](span, ast.Walrus{Target: ident, Value: right}), nil
	}

	return ast.NewNode[ast.Expr](span, ast.Assign{Target: ident, Value: right}), nil
}

func (p *Parser) parseTernary() (ast.Node[ast.Expr], error) {
	cond, err := p.parseOr()
	if err != nil {
		return cond, err
	}

	if _, ok, err := p.accept(token.Question); err != nil || !ok {
		return cond, err
	}

	then, err := p.parseTernary()
	if err != nil {
		return cond, err
	}

	if _, err := p.expect(token.Colon, "ternary delimiter ':'"); err != nil {
		return cond, err
	}

	els, err := p.parseTernary()
	if err != nil {
		return cond, err
	}

	return ast.NewNode[ast.Expr](cond.Span().Union(els.Span()), ast.Ternary{Cond: cond, Then: then, Else: els}), nil
}

// Operator tokens of each left-associative tier.
var (
	orOps      = map[token.Kind]ast.BinaryOp{token.Or: ast.Or}
	andOps     = map[token.Kind]ast.BinaryOp{token.And: ast.And}
	compareOps = map[token.Kind]ast.BinaryOp{
		token.Eq:   ast.Eq,
		token.Lt:   ast.Lt,
		token.Gt:   ast.Gt,
		token.NEq:  ast.NEq,
		token.LtEq: ast.LtEq,
		token.GtEq: ast.GtEq,
	}
	sumOps     = map[token.Kind]ast.BinaryOp{token.Plus: ast.Add, token.Minus: ast.Sub}
	productOps = map[token.Kind]ast.BinaryOp{
		token.Star:    ast.Mul,
		token.Slash:   ast.Div,
		token.Percent: ast.Mod,
	}
)

// leftAssoc parses a left-associative tier whose operands come from operand.
// Each new node becomes the left operand of the next operator in the tier.
func (p *Parser) leftAssoc(
	ops map[token.Kind]ast.BinaryOp,
	operand func() (ast.Node[ast.Expr], error),
) (ast.Node[ast.Expr], error) {
	left, err := operand()
	if err != nil {
		return left, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return left, err
		}

		op, ok := ops[tok.Kind]
		if !ok {
			return left, nil
		}

		if _, err := p.next(); err != nil {
			return left, err
		}

		right, err := operand()
		if err != nil {
			return left, err
		}

		left = binary(op, left, right)
	}
}

func (p *Parser) parseOr() (ast.Node[ast.Expr], error) {
	return p.leftAssoc(orOps, p.parseAnd)
}

func (p *Parser) parseAnd() (ast.Node[ast.Expr], error) {
	return p.leftAssoc(andOps, p.parseCompare)
}

func (p *Parser) parseCompare() (ast.Node[ast.Expr], error) {
	return p.leftAssoc(compareOps, p.parseSum)
}

func (p *Parser) parseSum() (ast.Node[ast.Expr], error) {
	return p.leftAssoc(sumOps, p.parseProduct)
}

func (p *Parser) parseProduct() (ast.Node[ast.Expr], error) {
	return p.leftAssoc(productOps, p.parsePow)
}

func (p *Parser) parsePow() (ast.Node[ast.Expr], error) {
	left, err := p.parseUnary()
	if err != nil {
		return left, err
	}

	if _, ok, err := p.accept(token.Pow); err != nil || !ok {
		return left, err
	}

	right, err := p.parsePow()
	if err != nil {
		return left, err
	}

	return binary(ast.Pow, left, right), nil
}

func (p *Parser) parseUnary() (ast.Node[ast.Expr], error) {
	tok, err := p.peek()
	if err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	var op ast.UnaryOp

	switch tok.Kind {
	case token.Minus:
		op = ast.Neg
	case token.Bang:
		op = ast.Not
	default:
		return p.parseAtom()
	}

	if _, err := p.next(); err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	operand, err := p.parseUnary()
	if err != nil {
		return operand, err
	}

	return ast.NewNode[ast.Expr](tok.Span.Union(operand.Span()), ast.Unary{Op: op, Operand: operand}), nil
}

func (p *Parser) parseAtom() (ast.Node[ast.Expr], error) {
	tok, err := p.peek()
	if err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	var x ast.Expr

	switch tok.Kind {
	case token.None:
		x = ast.None{}
	case token.True:
		x = ast.Bool{Value: true}
	case token.False:
		x = ast.Bool{Value: false}
	case token.String:
		x = ast.String{Value: tok.Text}

	case token.Int:
		i, err := value.ParseInt(strings.ReplaceAll(tok.Text, "_", ""))
		if err != nil {
			return ast.Node[ast.Expr]{}, ErrInvalidNumber.At(tok.Span).Wrap(err)
		}

		x = ast.Int{Value: i.Big()}

	case token.Float:
		f, err := value.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""))
		if err != nil {
			return ast.Node[ast.Expr]{}, ErrInvalidNumber.At(tok.Span).Wrap(err)
		}

		x = ast.Float{Value: f.Decimal()}

	case token.Ident:
		return p.parseIdent()

	case token.LParen:
		return p.parseGroup()

	default:
		return ast.Node[ast.Expr]{}, unexpected(tok, "expression")
	}

	if _, err := p.next(); err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	return ast.NewNode(tok.Span, x), nil
}

// parseIdent parses a variable reference or, if the name is followed by an
// argument list, a call.
func (p *Parser) parseIdent() (ast.Node[ast.Expr], error) {
	name, err := p.next()
	if err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	if _, ok, err := p.accept(token.LParen); err != nil || !ok {
		return ast.NewNode[ast.Expr](name.Span, ast.Var{Name: name.Text}), err
	}

	var args []ast.Node[ast.Expr]

	end, closed, err := p.accept(token.RParen)
	if err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	for !closed {
		arg, err := p.parseAssign()
		if err != nil {
			return ast.Node[ast.Expr]{}, err
		}

		args = append(args, arg)

		tok, err := p.next()
		if err != nil {
			return ast.Node[ast.Expr]{}, err
		}

		switch tok.Kind {
		case token.Comma:
		case token.RParen:
			end, closed = tok, true
		default:
			return ast.Node[ast.Expr]{}, unexpected(tok, "',' or ')'")
		}
	}

	call := ast.Call{Ident: ast.NewNode(name.Span, name.Text), Args: args}

	return ast.NewNode[ast.Expr](name.Span.Union(end.Span), call), nil
}

// parseGroup parses a parenthesized expression. The resulting node spans the
// parentheses too.
func (p *Parser) parseGroup() (ast.Node[ast.Expr], error) {
	open, err := p.next()
	if err != nil {
		return ast.Node[ast.Expr]{}, err
	}

	x, err := p.ParseExpr()
	if err != nil {
		return x, err
	}

	closing, ok, err := p.accept(token.RParen)
	if err != nil {
		return x, err
	}

	if !ok {
		return x, ErrUnclosedBrace.At(open.Span).Labelf("missing ')' for this '('")
	}

	return ast.NewNode(open.Span.Union(closing.Span), x.Item()), nil
}
