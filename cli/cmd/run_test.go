package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestRunRun(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "lib.boba", "fn greet(name): \"hello, \" + name\n")
	mainFile := writeFile(t, dir, "main.boba", "print(greet(who))\n")

	tests := []struct {
		name    string
		prelude []string
		files   []string
		stdin   string
	}{
		{"files in order", nil, []string{lib, mainFile}, ""},
		{"prelude then files", []string{lib}, []string{mainFile}, ""},
		{"stdin without files", []string{lib}, nil, "print(greet(who))\n"},
		{"stdin dash", nil, []string{lib, "-"}, "print(greet(who))\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := testStreams(t.Context(), tt.stdin)
			who := writeFile(t, t.TempDir(), "who.boba", `let who = "boba"`)
			ctx = WithSourceFiles(ctx, append([]string{who}, tt.prelude...))

			if err := (&Run{Files: tt.files}).Run(ctx); err != nil {
				t.Fatalf("Run.Run() error = %v\n%s", err, errOut)
			}

			if got := out.String(); got != "hello, boba\n" {
				t.Errorf("output = %q, want %q", got, "hello, boba\n")
			}
		})
	}
}

func TestRunRun_Error(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.boba", "print(1)\nundefined_name\nprint(2)\n")

	ctx, out, errOut := testStreams(t.Context(), "")

	err := (&Run{Files: []string{bad}}).Run(ctx)
	if !errors.Is(err, ErrProgram) {
		t.Fatalf("Run.Run() error = %v, want %v", err, ErrProgram)
	}

	if out.String() != "1\n" {
		t.Errorf("output = %q, want statements before the error to run", out.String())
	}

	if !strings.Contains(errOut.String(), "bad.boba:2:") {
		t.Errorf("diagnostic %q does not locate line 2", errOut.String())
	}
}
