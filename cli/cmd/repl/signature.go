package repl

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/engine"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call. Parentheses and commas
// inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan forward to the cursor, tracking open parens and the argument count
	// of each.
	type frame struct{ open, args int }

	var (
		stack  []frame
		quoted bool
	)

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case quoted && r == '\\':
			i += size
			if i < cursor {
				_, size = utf8.DecodeRuneInString(input[i:])
			}
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '(':
			stack = append(stack, frame{open: i})
		case r == ')' && len(stack) > 0:
			stack = stack[:len(stack)-1]
		case r == ',' && len(stack) > 0:
			stack[len(stack)-1].args++
		}

		i += size
	}

	if len(stack) == 0 {
		return functionCall{inCall: false}
	}

	top := stack[len(stack)-1]

	// Extract function name before the '('
	name, _, _ := wordBounds(input[:top.open], top.open)
	if name == "" {
		return functionCall{inCall: false}
	}

	return functionCall{
		name:     name,
		argIndex: top.args,
		inCall:   true,
	}
}

// getSignature retrieves the signature of the function visible to e under
// name. Returns an empty signature if no such function exists.
func getSignature(e *engine.Engine, name string) (signature string, params []string) {
	f, ok := e.Func(name)
	if !ok {
		return "", nil
	}

	params = paramNames(f)

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// paramNames returns the parameter names of f. Natives have no names, so
// their parameters are numbered.
func paramNames(f ast.Function) []string {
	switch f := f.(type) {
	case ast.Custom:
		names := make([]string, len(f.Params))
		for i, p := range f.Params {
			names[i] = p.Item()
		}

		return names

	case ast.Native:
		if f.Params == ast.Variadic {
			return []string{"...args"}
		}

		names := make([]string, f.Params)
		for i := range names {
			names[i] = "arg" + strconv.Itoa(i+1)
		}

		return names
	}

	return nil
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	funcName, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	// If no parameters, just render the signature
	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	// Build the signature with highlighted current parameter
	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// For variadic parameters, highlight if we're at or beyond that index
		isVariadic := strings.HasPrefix(param, "...")

		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
