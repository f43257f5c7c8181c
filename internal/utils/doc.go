// Package utils provides shared helpers for rsakit commands and workflows.
//
// # Files
//
// ResolveFiles expands paths, directories and ** globs into the files an
// encrypt-file or decrypt-file run should touch. Directory walks skip
// hidden subdirectories.
//
// # I/O
//
//   - ReadInput: read piped data, refusing an interactive terminal
//   - FormatPaths: render a list of paths for output
//
// # Terminal
//
//   - ReadPassphrase: hidden passphrase prompt for protected OpenSSH keys
//   - IsTerminal / IsStdoutTerminal: TTY detection
package utils
