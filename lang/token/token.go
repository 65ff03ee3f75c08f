// Package token defines the lexical tokens of the boba language.
package token

import "github.com/ardnew/boba/lang/source"

// Kind classifies a token.
type Kind int

const (
	Invalid Kind = iota
	EOF

	// Layout.
	Newline
	Indent
	Dedent

	// Literals and names.
	Ident
	Int
	Float
	String

	// Keywords.
	None
	True
	False
	Let
	Fn
	While
	And
	Or

	// Operators and punctuation.
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %
	Pow      // **
	Eq       // ==
	NEq      // !=
	Lt       // <
	Gt       // >
	LtEq     // <=
	GtEq     // >=
	Bang     // !
	Assign   // =
	Walrus   // :=
	Question // ?
	Colon    // :
	LParen   // (
	RParen   // )
	Comma    // ,
)

var kindNames = [...]string{
	Invalid:  "invalid token",
	EOF:      "end of input",
	Newline:  "newline",
	Indent:   "indent",
	Dedent:   "dedent",
	Ident:    "identifier",
	Int:      "integer",
	Float:    "decimal",
	String:   "string",
	None:     "'none'",
	True:     "'true'",
	False:    "'false'",
	Let:      "'let'",
	Fn:       "'fn'",
	While:    "'while'",
	And:      "'and'",
	Or:       "'or'",
	Plus:     "'+'",
	Minus:    "'-'",
	Star:     "'*'",
	Slash:    "'/'",
	Percent:  "'%'",
	Pow:      "'**'",
	Eq:       "'=='",
	NEq:      "'!='",
	Lt:       "'<'",
	Gt:       "'>'",
	LtEq:     "'<='",
	GtEq:     "'>='",
	Bang:     "'!'",
	Assign:   "'='",
	Walrus:   "':='",
	Question: "'?'",
	Colon:    "':'",
	LParen:   "'('",
	RParen:   "')'",
	Comma:    "','",
}

// String returns the human-readable name of k used in diagnostics.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[Invalid]
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]Kind{
	"none":  None,
	"true":  True,
	"false": False,
	"let":   Let,
	"fn":    Fn,
	"while": While,
	"and":   And,
	"or":    Or,
}

// Token is one lexeme with its location.
//
// Text holds the raw source for names and numbers, and the unescaped
// contents for strings.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

// Is reports whether t has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// Describe returns how t is named in diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident, Int, Float:
		return t.Kind.String() + " '" + t.Text + "'"
	default:
		return t.Kind.String()
	}
}
