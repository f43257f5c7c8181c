package ui

import (
	"strings"
	"testing"
)

func TestMark(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if Mark(true) != "✓" || Mark(false) != "✗" {
		t.Errorf("Mark = %q/%q", Mark(true), Mark(false))
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0b6f1c2e-aaaa-bbbb-cccc-1234567890ab"); got != "0b6f1c2e" {
		t.Errorf("ShortID = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(short) = %q", got)
	}
}

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdefghijkl", 8, "abcde..."},
		{"héllo wörld", 6, "hél..."},
		{"abcdef", 3, "abcdef"},
	}
	for _, tt := range tests {
		if got := Abbreviate(tt.in, tt.n); got != tt.want {
			t.Errorf("Abbreviate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	out := Table(
		[]string{"ID", "LABEL", "BITS"},
		[][]string{
			{"0b6f1c2e", "backup", "2048"},
			{"9d1e", "", "4096"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "ID        LABEL   BITS" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0b6f1c2e  backup  2048" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "9d1e              4096" {
		t.Errorf("row 2 = %q", lines[2])
	}
}
