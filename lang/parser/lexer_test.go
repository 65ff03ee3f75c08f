package parser

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/ardnew/boba/lang/source"
	"github.com/ardnew/boba/lang/token"
)

func buffer(text string) *source.Buffer {
	return source.NewCache().Store("test", text)
}

// lex returns every token of text up to and including EOF, or the first
// error.
func lex(text string) ([]token.Token, error) {
	l := NewLexer(buffer(text))

	var toks []token.Token

	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)

		if tok.Is(token.EOF) {
			return toks, nil
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}

func TestLexer_Kinds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []token.Kind
	}{
		{
			name: "operators",
			text: "let x = 1_000 + 2.5e3 # c\nx ** 2 != y\n",
			want: []token.Kind{
				token.Let, token.Ident, token.Assign, token.Int, token.Plus, token.Float, token.Newline,
				token.Ident, token.Pow, token.Int, token.NEq, token.Ident, token.Newline,
				token.EOF,
			},
		},
		{
			name: "compound",
			text: "a := b <= c >= d == e < f > g ? !h : -i % j / k * l",
			want: []token.Kind{
				token.Ident, token.Walrus, token.Ident, token.LtEq, token.Ident, token.GtEq,
				token.Ident, token.Eq, token.Ident, token.Lt, token.Ident, token.Gt, token.Ident,
				token.Question, token.Bang, token.Ident, token.Colon, token.Minus, token.Ident,
				token.Percent, token.Ident, token.Slash, token.Ident, token.Star, token.Ident,
				token.EOF,
			},
		},
		{
			name: "keywords",
			text: "none true false and or while fn let lets",
			want: []token.Kind{
				token.None, token.True, token.False, token.And, token.Or, token.While,
				token.Fn, token.Let, token.Ident, token.EOF,
			},
		},
		{
			name: "blocks",
			text: "fn f(a):\n  while a:\n    a\n  a\nf(1)\n",
			want: []token.Kind{
				token.Fn, token.Ident, token.LParen, token.Ident, token.RParen, token.Colon, token.Newline,
				token.Indent, token.While, token.Ident, token.Colon, token.Newline,
				token.Indent, token.Ident, token.Newline,
				token.Dedent, token.Ident, token.Newline,
				token.Dedent, token.Ident, token.LParen, token.Int, token.RParen, token.Newline,
				token.EOF,
			},
		},
		{
			name: "blocks closed at end of input",
			text: "fn f():\n\twhile x:\n\t\ty",
			want: []token.Kind{
				token.Fn, token.Ident, token.LParen, token.RParen, token.Colon, token.Newline,
				token.Indent, token.While, token.Ident, token.Colon, token.Newline,
				token.Indent, token.Ident, token.Dedent, token.Dedent, token.EOF,
			},
		},
		{
			name: "newlines inside parentheses",
			text: "f(1,\n  2)\n",
			want: []token.Kind{
				token.Ident, token.LParen, token.Int, token.Comma, token.Int, token.RParen,
				token.Newline, token.EOF,
			},
		},
		{
			name: "blank and comment lines",
			text: "\n# heading\nx\n\n   # note\n  \ny\n",
			want: []token.Kind{token.Ident, token.Newline, token.Ident, token.Newline, token.EOF},
		},
		{
			name: "empty",
			text: "",
			want: []token.Kind{token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lex(tt.text)
			if err != nil {
				t.Fatalf("lex() error = %v", err)
			}

			if got := kinds(toks); !slices.Equal(got, tt.want) {
				t.Errorf("lex() kinds =\n%v\nwant\n%v", got, tt.want)
			}
		})
	}
}

func TestLexer_Text(t *testing.T) {
	toks, err := lex(`x1 "a\tb\"c" 'it''s' 3.25 1e3 7_0`)
	if err != nil {
		t.Fatalf("lex() error = %v", err)
	}

	want := []string{"x1", "a\tb\"c", "it", "s", "3.25", "1e3", "7_0", ""}

	got := make([]string, len(toks))
	for i, tok := range toks {
		got[i] = tok.Text
	}

	if !slices.Equal(got, want) {
		t.Errorf("lex() text = %q, want %q", got, want)
	}

	if toks[4].Kind != token.Float || toks[5].Kind != token.Float || toks[6].Kind != token.Int {
		t.Errorf("numeric kinds = %v %v %v", toks[4].Kind, toks[5].Kind, toks[6].Kind)
	}

	if s := toks[1].Span; s.Start != 3 || s.End != 12 {
		t.Errorf("string span = %v, want 3..12", s)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		want       error
		start, end int
		label      string
	}{
		{"invalid character", "1 @ 2", ErrInvalidToken, 2, 3, "invalid token '@'"},
		{"invalid number", "12ab + 1", ErrInvalidNumber, 0, 4, `"12ab"`},
		{"dangling exponent", "1e+", ErrInvalidNumber, 0, 2, `"1e"`},
		{"unclosed string", `x = "abc`, ErrUnclosedString, 4, 8, "no closing quote"},
		{"string across lines", "\"a\nb\"", ErrUnclosedString, 0, 2, "no closing quote"},
		{"invalid escape", `"a\qb"`, ErrInvalidToken, 2, 4, `\q`},
		{
			"space after tab", "fn f():\n\tx\n  y",
			ErrMixedTabsAndSpaces, 11, 12, "space found here when a tab was expected",
		},
		{
			"tab after space", "while x:\n  a\n\tb",
			ErrMixedTabsAndSpaces, 13, 14, "tab found here when a space was expected",
		},
		{"unmatched dedent", "while x:\n    a\n  b", ErrUnexpectedToken, 15, 17, "width 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lex(tt.text)
			checkError(t, err, tt.want, tt.start, tt.end, tt.label)
		})
	}
}

func TestLexer_InvalidNumberCause(t *testing.T) {
	tests := []struct {
		text string
		num  string
	}{
		{"9z", "9z"},
		{"x = 3.5kg", "3.5kg"},
		{"1e+", "1e"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := lex(tt.text)
			if !errors.Is(err, ErrInvalidNumber) {
				t.Fatalf("lex(%q) error = %v, want %v", tt.text, err, ErrInvalidNumber)
			}

			if !errors.Is(err, strconv.ErrSyntax) {
				t.Errorf("lex(%q) error = %v, does not wrap %v", tt.text, err, strconv.ErrSyntax)
			}

			var ne *strconv.NumError
			if !errors.As(err, &ne) || ne.Num != tt.num {
				t.Errorf("lex(%q) cause = %v, want a NumError for %q", tt.text, ne, tt.num)
			}
		})
	}
}

func TestLexer_StickyError(t *testing.T) {
	l := NewLexer(buffer("@ x"))

	_, first := l.Next()
	_, second := l.Next()

	if first == nil || !errors.Is(second, ErrInvalidToken) {
		t.Errorf("Next() errors = %v, %v", first, second)
	}
}

func checkError(t *testing.T, err, want error, start, end int, label string) {
	t.Helper()

	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}

	var se *source.Error
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not a *source.Error", err)
	}

	if s := se.Span(); s.Start != start || s.End != end {
		t.Errorf("span = %v, want %d..%d", s, start, end)
	}

	if !strings.Contains(se.Label(), label) && !strings.Contains(se.Error(), label) {
		t.Errorf("error = %q, want it to mention %q", se.Error(), label)
	}
}
