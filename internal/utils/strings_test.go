package utils

import (
	"testing"
)

func TestFormatPaths(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	got := FormatPaths([]string{"a.txt.rsa", "b.png.rsa"})
	want := "\n    - a.txt.rsa\n    - b.png.rsa\n"
	if got != want {
		t.Errorf("FormatPaths = %q, want %q", got, want)
	}
}
