// Package ui provides semantic text formatting for rsakit output.
//
// Formatters colorize content when the terminal supports it. When NO_COLOR
// is set or the terminal has no color support they fall back to plain
// decorations:
//
//	ui.Code.Sprint("rsakit keys generate") // `rsakit keys generate`
//	ui.Path.Sprint("report.pdf.rsa")       // report.pdf.rsa
//	ui.KeyRef.Sprint("backup")             // 'backup'
//	ui.Muted.Sprint("2048 bits")           // (2048 bits)
//
// Success, Error, Warning, Info and Flag add no decoration.
//
// Table, ShortID, Abbreviate and FormatBytes shape listings such as
// `rsakit keys list` and `rsakit history`.
package ui
