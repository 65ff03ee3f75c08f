package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

const messy = "let total=0\nfn add(a,b): a+b\nwhile total<10:\n\ttotal=add(total,3)\n"

func TestNativeFmt(t *testing.T) {
	want := "let total = 0\n" +
		"fn add(a, b):\n" +
		"  a + b\n" +
		"while total < 10:\n" +
		"  total = add(total, 3)\n"

	dir := t.TempDir()
	path := writeFile(t, dir, "messy.boba", messy)

	tests := []struct {
		name   string
		source string
		stdin  string
	}{
		{"file", path, ""},
		{"stdin", "-", messy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := testStreams(t.Context(), tt.stdin)

			f := &Native{Indent: 2, Source: tt.source}
			if err := f.Run(ctx); err != nil {
				t.Fatalf("Native.Run() error = %v\n%s", err, errOut)
			}

			if out.String() != want {
				t.Errorf("output =\n%s\nwant\n%s", out, want)
			}
		})
	}
}

func TestNativeFmt_Idempotent(t *testing.T) {
	ctx, out, _ := testStreams(t.Context(), messy)
	if err := (&Native{Indent: 4, Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	first := out.String()

	ctx, out, _ = testStreams(t.Context(), first)
	if err := (&Native{Indent: 4, Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if out.String() != first {
		t.Errorf("second format =\n%s\nwant\n%s", out, first)
	}
}

func TestFmt_InvalidSyntax(t *testing.T) {
	tests := []struct {
		name string
		cmd  interface{ Run(context.Context) error }
	}{
		{"native", &Native{Indent: 4, Source: "-"}},
		{"json", &JSON{Indent: 2, Source: "-"}},
		{"yaml", &YAML{Indent: 2, Source: "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := testStreams(t.Context(), "let = 1\n")

			if err := tt.cmd.Run(ctx); !errors.Is(err, ErrProgram) {
				t.Errorf("Run() error = %v, want %v", err, ErrProgram)
			}

			if out.Len() != 0 {
				t.Errorf("Run() wrote %q on a parse error", out)
			}

			if !strings.Contains(errOut.String(), stdinLabel) {
				t.Errorf("diagnostic %q does not name %s", errOut, stdinLabel)
			}
		})
	}
}

func TestJSONFmt(t *testing.T) {
	ctx, out, errOut := testStreams(t.Context(), messy)

	if err := (&JSON{Indent: 2, Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("JSON.Run() error = %v\n%s", err, errOut)
	}

	var tree []any
	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if len(tree) != 3 {
		t.Errorf("tree has %d statements, want 3", len(tree))
	}
}

func TestYAMLFmt(t *testing.T) {
	ctx, out, errOut := testStreams(t.Context(), messy)

	if err := (&YAML{Indent: 2, Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("YAML.Run() error = %v\n%s", err, errOut)
	}

	var tree []any
	if err := yaml.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}

	if len(tree) != 3 {
		t.Errorf("tree has %d statements, want 3", len(tree))
	}
}
