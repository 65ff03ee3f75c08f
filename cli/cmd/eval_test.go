package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		programs []string
		want     string
	}{
		{"native int", "native", []string{"1 + 2"}, "3\n"},
		{"native string", "native", []string{`"a" + "b"`}, "ab\n"},
		{"quoted string", "quoted", []string{`"a" + "b"`}, "\"ab\"\n"},
		{"json int", "json", []string{"6 * 7"}, "42\n"},
		{"json string", "json", []string{`"x"`}, "\"x\"\n"},
		{"json bool", "json", []string{"1 < 2"}, "true\n"},
		{"json none", "json", []string{"none"}, "null\n"},
		{"shared session", "native", []string{"let x = 20", "x + 1"}, "none\n21\n"},
		{"print output first", "native", []string{`print("hi")`}, "hi\nnone\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := testStreams(t.Context(), "")

			e := &Eval{Format: tt.format, Programs: tt.programs}
			if err := e.Run(ctx); err != nil {
				t.Fatalf("Eval.Run() error = %v\n%s", err, errOut)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestEvalRun_Error(t *testing.T) {
	ctx, out, errOut := testStreams(t.Context(), "")

	e := &Eval{Format: "native", Programs: []string{"1", "1 / 0", "2"}}

	err := e.Run(ctx)
	if !errors.Is(err, ErrProgram) {
		t.Fatalf("Eval.Run() error = %v, want %v", err, ErrProgram)
	}

	if out.String() != "1\n" {
		t.Errorf("output = %q, want only the first result", out.String())
	}

	if !strings.Contains(errOut.String(), "<arg 2>") {
		t.Errorf("diagnostic %q does not name <arg 2>", errOut.String())
	}
}
