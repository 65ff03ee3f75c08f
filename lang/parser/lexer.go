package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/lang/token"
)

// Lexer splits a source buffer into tokens on demand.
//
// Block structure is carried by layout tokens: every line break ending a
// logical line is a [token.Newline], a deeper indentation than the enclosing line opens a block
// with [token.Indent], and returning to an enclosing level closes one block
// per level with [token.Dedent]. Newlines inside parentheses are ignored.
type Lexer struct {
	buf *source.Buffer
	src string
	pos int

	indents []int // widths of open indentation levels, innermost last
	unit    byte  // indentation character fixed by the first indented line
	parens  int

	pending []token.Token
	bol     bool // at beginning of a logical line
	done    bool
	err     error
}

// NewLexer returns a lexer reading buf.
func NewLexer(buf *source.Buffer) *Lexer {
	return &Lexer{
		buf:     buf,
		src:     buf.Text(),
		indents: []int{0},
		bol:     true,
	}
}

// Next returns the next token. After the end of input it keeps returning
// [token.EOF]; after an error it keeps returning that error.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	tok, err := l.next()
	if err != nil {
		l.err = err

		return token.Token{}, err
	}

	return tok, nil
}

func (l *Lexer) next() (token.Token, error) {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]

			return tok, nil
		}

		if l.done {
			return l.emit(token.EOF, len(l.src), len(l.src), ""), nil
		}

		if l.bol && l.parens == 0 {
			if err := l.indentation(); err != nil {
				return token.Token{}, err
			}

			continue
		}

		l.skipSpace()

		if l.pos >= len(l.src) {
			l.finish()

			continue
		}

		return l.scan()
	}
}

// finish closes every open block.
func (l *Lexer) finish() {
	end := len(l.src)

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, l.emit(token.Dedent, end, end, ""))
	}

	l.done = true
}

// indentation measures the leading whitespace of the next non-blank line and
// queues the Indent or Dedent tokens it implies.
func (l *Lexer) indentation() error {
	for l.blankLine() {
		// skip lines holding only whitespace or a comment
	}

	l.bol = false

	if l.pos >= len(l.src) {
		return nil
	}

	start := l.pos

	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		c := l.src[l.pos]

		if l.unit == 0 {
			l.unit = c
		} else if c != l.unit {
			err := ErrMixedTabsAndSpaces.At(l.buf.Span(l.pos, l.pos+1))
			if c == '\t' {
				return err.Labelf("tab found here when a space was expected")
			}

			return err.Labelf("space found here when a tab was expected")
		}

		l.pos++
	}

	width := l.pos - start

	switch top := l.indents[len(l.indents)-1]; {
	case width > top:
		l.indents = append(l.indents, width)
		l.pending = append(l.pending, l.emit(token.Indent, start, l.pos, ""))

	case width < top:
		for width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, l.emit(token.Dedent, l.pos, l.pos, ""))
		}

		if width != l.indents[len(l.indents)-1] {
			return ErrUnexpectedToken.At(l.buf.Span(start, l.pos)).Labelf(
				"expected indentation matching an enclosing block, found width %d", width)
		}
	}

	return nil
}

// blankLine consumes the rest of the current line if it holds nothing but
// whitespace or a comment.
func (l *Lexer) blankLine() bool {
	i := l.pos
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t' || l.src[i] == '\r') {
		i++
	}

	if i < len(l.src) && l.src[i] == '#' {
		for i < len(l.src) && l.src[i] != '\n' {
			i++
		}
	}

	if i < len(l.src) && l.src[i] == '\n' {
		l.pos = i + 1

		return true
	}

	if i >= len(l.src) {
		l.pos = i
	}

	return false
}

// skipSpace skips whitespace and comments within a line, and newlines too
// while inside parentheses.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '\n' && l.parens > 0:
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) emit(kind token.Kind, start, end int, text string) token.Token {
	return token.Token{Kind: kind, Text: text, Span: l.buf.Span(start, end)}
}

// op returns a token of kind spanning n bytes from the current position.
func (l *Lexer) op(kind token.Kind, n int) (token.Token, error) {
	start := l.pos
	l.pos += n

	return l.emit(kind, start, l.pos, l.src[start:l.pos]), nil
}

// twin returns long if the byte after the current one is c, otherwise short.
func (l *Lexer) twin(short token.Kind, c byte, long token.Kind) (token.Token, error) {
	if l.pos+1 < len(l.src) && l.src[l.pos+1] == c {
		return l.op(long, 2)
	}

	return l.op(short, 1)
}

func (l *Lexer) scan() (token.Token, error) {
	c := l.src[l.pos]

	switch {
	case c == '\n':
		l.bol = true

		return l.op(token.Newline, 1)

	case isLetter(c):
		return l.ident(), nil

	case isDigit(c):
		return l.number()

	case c == '"' || c == '\'':
		return l.string()
	}

	switch c {
	case '+':
		return l.op(token.Plus, 1)
	case '-':
		return l.op(token.Minus, 1)
	case '*':
		return l.twin(token.Star, '*', token.Pow)
	case '/':
		return l.op(token.Slash, 1)
	case '%':
		return l.op(token.Percent, 1)
	case '=':
		return l.twin(token.Assign, '=', token.Eq)
	case '!':
		return l.twin(token.Bang, '=', token.NEq)
	case '<':
		return l.twin(token.Lt, '=', token.LtEq)
	case '>':
		return l.twin(token.Gt, '=', token.GtEq)
	case ':':
		return l.twin(token.Colon, '=', token.Walrus)
	case '?':
		return l.op(token.Question, 1)
	case ',':
		return l.op(token.Comma, 1)
	case '(':
		l.parens++

		return l.op(token.LParen, 1)
	case ')':
		if l.parens > 0 {
			l.parens--
		}

		return l.op(token.RParen, 1)
	}

	r, n := utf8.DecodeRuneInString(l.src[l.pos:])

	return token.Token{}, ErrInvalidToken.At(l.buf.Span(l.pos, l.pos+n)).Labelf("invalid token %q", r)
}

func (l *Lexer) ident() token.Token {
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
		l.pos++
	}

	text := l.src[start:l.pos]

	if kind, ok := token.Keywords[text]; ok {
		return l.emit(kind, start, l.pos, text)
	}

	return l.emit(token.Ident, start, l.pos, text)
}

func (l *Lexer) digits() {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

func (l *Lexer) number() (token.Token, error) {
	start := l.pos
	kind := token.Int

	l.digits()

	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		kind = token.Float
		l.pos++
		l.digits()
	}

	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		i := l.pos + 1
		if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
			i++
		}

		if i < len(l.src) && isDigit(l.src[i]) {
			kind = token.Float
			l.pos = i
			l.digits()
		}
	}

	if l.pos < len(l.src) && isLetter(l.src[l.pos]) {
		for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.pos++
		}

		text := l.src[start:l.pos]

		fn := "ParseInt"
		if kind == token.Float {
			fn = "ParseFloat"
		}

		return token.Token{}, ErrInvalidNumber.At(l.buf.Span(start, l.pos)).
			Wrap(&strconv.NumError{Func: fn, Num: text, Err: strconv.ErrSyntax}).
			Labelf("malformed numeric literal %q", text)
	}

	return l.emit(kind, start, l.pos, l.src[start:l.pos]), nil
}

var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func (l *Lexer) string() (token.Token, error) {
	start := l.pos
	quote := l.src[l.pos]

	var b strings.Builder

	l.pos++

	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return token.Token{}, ErrUnclosedString.At(l.buf.Span(start, l.pos)).Labelf(
				"string has no closing quote")
		}

		switch c := l.src[l.pos]; c {
		case quote:
			l.pos++

			return l.emit(token.String, start, l.pos, b.String()), nil

		case '\\':
			if l.pos+1 >= len(l.src) || l.src[l.pos+1] == '\n' {
				l.pos++

				continue
			}

			e, ok := escapes[l.src[l.pos+1]]
			if !ok {
				r, n := utf8.DecodeRuneInString(l.src[l.pos+1:])

				return token.Token{}, ErrInvalidToken.At(l.buf.Span(l.pos, l.pos+1+n)).Labelf(
					"invalid escape sequence \\%c", r)
			}

			b.WriteByte(e)
			l.pos += 2

		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
