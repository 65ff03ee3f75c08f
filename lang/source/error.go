package source

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Error is a diagnostic pinned to a source location.
//
// Packages declare their error kinds as sentinel values with [NewError] and
// refine a copy per occurrence with [Error.At], [Error.Labelf], [Error.Wrap],
// and [Error.With]. Refined copies match their sentinel with [errors.Is].
type Error struct {
	code  string
	title string
	label string
	span  Span
	err   error       // wrapped cause (for errors.Unwrap)
	attrs []slog.Attr // structured details
}

// NewError creates a sentinel error with a stable code and a short title.
func NewError(code, title string) *Error {
	return &Error{code: code, title: title}
}

// Code returns the stable diagnostic code of e, such as "C-006".
func (e *Error) Code() string { return e.code }

// Title returns the short summary of e's kind.
func (e *Error) Title() string { return e.title }

// Label returns the annotation of this occurrence.
func (e *Error) Label() string { return e.label }

// Span returns the location of this occurrence.
func (e *Error) Span() Span { return e.span }

// Attr returns the value of the structured detail named key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

// At returns a copy of e located at span.
func (e *Error) At(span Span) *Error {
	c := e.clone()
	c.span = span

	return c
}

// Labelf returns a copy of e annotated with a formatted label.
func (e *Error) Labelf(format string, args ...any) *Error {
	c := e.clone()
	c.label = fmt.Sprintf(format, args...)

	return c
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With returns a copy of e with additional structured details.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.title != "" {
		part = append(part, e.title)
	}

	switch {
	case e.label != "":
		part = append(part, e.label)
	case e.err != nil:
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] of the same kind as e.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.code == e.code
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	attrs = append(attrs,
		slog.String("code", e.code),
		slog.String("error", e.title),
	)

	if e.label != "" {
		attrs = append(attrs, slog.String("label", e.label))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	attrs = append(attrs, slog.String("span", e.span.String()))

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Report implements [Reporter].
func (e *Error) Report() Report {
	label := e.label
	if label == "" && e.err != nil {
		label = e.err.Error()
	}

	return Report{
		Code:  e.code,
		Title: e.title,
		Label: label,
		Span:  e.span,
	}
}
