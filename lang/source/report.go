package source

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report is the kind-independent payload of a diagnostic.
//
// Parse and run-time errors both describe themselves as a Report so the
// cache can render them the same way.
type Report struct {
	Code  string // e.g. "C-004"
	Title string // short summary, e.g. "Invalid Number"
	Label string // annotation printed under the offending span
	Span  Span
}

// Reporter is implemented by errors that carry a source location.
type Reporter interface {
	Report() Report
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	caretStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

type painter bool

func (p painter) paint(style lipgloss.Style, s string) string {
	if !p {
		return s
	}

	return style.Render(s)
}

// Render writes an annotated snippet for r to w.
// When color is true the output is styled with ANSI escapes.
//
//	error[C-004]: Invalid Number
//	 --> main.boba:1:9
//	  |
//	1 | let x = 12.5.3
//	  |         ^^^^^^ could not parse number
//	  |
func (c *Cache) Render(w io.Writer, r Report, color bool) error {
	p := painter(color)

	var b strings.Builder

	b.WriteString(p.paint(errorStyle, "error["+r.Code+"]"))
	b.WriteString(p.paint(titleStyle, ": "+r.Title))
	b.WriteByte('\n')

	buf, err := c.Load(r.Span.ID)
	if err != nil {
		if r.Label != "" {
			b.WriteString(" = " + r.Label + "\n")
		}

		_, err = io.WriteString(w, b.String())

		return err
	}

	line, col := buf.Position(r.Span.Start)
	num := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(num))
	bar := p.paint(gutterStyle, pad+" |")

	fmt.Fprintf(&b, "%s%s %s:%d:%d\n",
		pad, p.paint(gutterStyle, "-->"), buf.Label(), line, col)
	b.WriteString(bar + "\n")

	text := buf.Line(line)
	b.WriteString(p.paint(gutterStyle, num+" |") + " " + text + "\n")

	lead := buf.Slice(Span{Start: buf.LineStart(line), End: r.Span.Start})
	width := caretWidth(buf, r.Span, len(lead), len(text))

	b.WriteString(bar + " " + indentLike(lead))
	b.WriteString(p.paint(caretStyle, strings.Repeat("^", width)))

	if r.Label != "" {
		b.WriteString(" " + p.paint(caretStyle, r.Label))
	}

	b.WriteString("\n" + bar + "\n")

	_, err = io.WriteString(w, b.String())

	return err
}

// caretWidth returns the number of carets to draw under span, limited to the
// remainder of the first line and never less than one.
func caretWidth(buf *Buffer, span Span, col, lineLen int) int {
	end := min(span.End, span.Start+max(lineLen-col, 0))
	text := buf.Slice(Span{Start: span.Start, End: end})

	return max(len([]rune(text)), 1)
}

// indentLike returns whitespace that occupies the same columns as s,
// preserving tabs so carets line up with the echoed source line.
func indentLike(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}

		return ' '
	}, s)
}
