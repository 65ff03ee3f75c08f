package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/boba/lang/ast"
)

// Format writes program to w in canonical boba syntax, indenting blocks by
// indent spaces (or a tab when indent is not positive).
func Format(_ context.Context, w io.Writer, program []ast.Node[ast.Statement], indent int) error {
	return ast.Format(w, program, indent)
}

// FormatJSON writes the syntax tree of program to w as JSON. A positive
// indent pretty-prints the output.
func FormatJSON(_ context.Context, w io.Writer, program []ast.Node[ast.Statement], indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ast.ToMap(program), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ast.ToMap(program))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax tree of program to w as YAML. A positive
// indent selects block style; otherwise the output uses flow style.
func FormatYAML(ctx context.Context, w io.Writer, program []ast.Node[ast.Statement], indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ast.ToMap(program), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}
