package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestColorMode_Enabled(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tests := []struct {
		mode    colorMode
		noColor bool
		want    bool
	}{
		{colorAlways, true, true},
		{colorNever, false, false},
		{colorAuto, false, false}, // regular files are not terminals
		{colorAuto, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if tt.noColor {
				t.Setenv("NO_COLOR", "1")
			}

			if got := tt.mode.enabled(f); got != tt.want {
				t.Errorf("%s.enabled() = %t, want %t", tt.mode, got, tt.want)
			}
		})
	}
}
