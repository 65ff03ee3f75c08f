package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/ast"
	"github.com/ardnew/boba/lang/source"
)

type testLevel string

// initContext parses args against a small CLI and returns a context carrying
// the kong context, with the configuration file at confPath.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli struct {
		Verbose   bool      `help:"Enable verbose output"`
		Output    string    `help:"Output file"`
		Count     int       `help:"Number of items"`
		Ratio     float64   `default:"0.5"            help:"Ratio"`
		Level     testLevel `default:"warn"           help:"Level"`
		MaxDepth  uint32    `default:"1000"           help:"Depth"`
		Tags      []string  `help:"Tags"`
		Source    []string  `help:"Source files"`
		Secret    string    `default:"hidden"         hidden:""`
		PprofMode string    `default:"cpu"            help:"Profile mode"`
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	ctx, _, _ := testStreams(WithContext(t.Context(), ktx), "")

	return ctx
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create new config", false, false, nil},
		{"overwrite with force", true, true, nil},
		{"fail without force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config"+ConfigExt)

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("let old = 1\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--count=5")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			// The generated file must run and define the flag values.
			s := lang.NewSession()
			if _, err := s.Exec(ctx, confPath, string(content)); err != nil {
				t.Fatalf("generated config does not run: %v\n%s", err, content)
			}

			if v, ok := s.Engine().Var("count"); !ok || v.String() != "5" {
				t.Errorf("count = %v (defined %t), want 5\n%s", v, ok, content)
			}
		})
	}
}

func TestInitBuildProgram(t *testing.T) {
	ctx := initContext(t, filepath.Join(t.TempDir(), "c"), "--verbose", "--output=out.txt")

	var names []string

	for _, stmt := range (&Init{}).buildProgram(ctx) {
		let, ok := stmt.Item().(ast.LetStmt)
		if !ok {
			t.Fatalf("statement %#v is not a let", stmt.Item())
		}

		names = append(names, let.Ident.Item())
	}

	want := []string{"verbose", "output", "count", "ratio", "level", "max_depth"}
	if len(names) != len(want) {
		t.Fatalf("buildProgram() defines %q, want %q", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("buildProgram() defines %q, want %q", names, want)

			break
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name   string
		val    any
		want   string
		wantOK bool
	}{
		{"bool", true, "true", true},
		{"int", -3, "-3", true},
		{"uint32", uint32(34), "34", true},
		{"float", 0.25, "0.25", true},
		{"string", "a\"b", `"a\"b"`, true},
		{"named string", testLevel("debug"), `"debug"`, true},
		{"empty string", "", "", false},
		{"slice", []string{"a"}, "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := literal(tt.val)
			if ok != tt.wantOK {
				t.Fatalf("literal(%v) ok = %t, want %t", tt.val, ok, tt.wantOK)
			}

			if !ok {
				return
			}

			if got := ast.FormatExpr(ast.NewNode(source.Span{}, x)); got != tt.want {
				t.Errorf("literal(%v) = %s, want %s", tt.val, got, tt.want)
			}
		})
	}
}
