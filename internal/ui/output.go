package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const shortIDLen = 8

// Mark returns a colored check or cross.
func Mark(ok bool) string {
	if ok {
		return Success.Sprint("✓")
	}
	return Error.Sprint("✗")
}

// ShortID returns the first eight characters of a key ID.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// Abbreviate cuts s to at most n runes, marking the cut with "...".
func Abbreviate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// FormatBytes renders a byte count in B, KiB or MiB.
func FormatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KiB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
	}
}

// Table lays rows out in left-aligned columns separated by two spaces.
// Widths are measured in runes on the uncolored cell text, so color must be
// applied by the caller after layout.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) {
				if w := utf8.RuneCountInString(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i == len(row)-1 || i == len(widths)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2))
		}
		b.WriteString("\n")
	}
	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
