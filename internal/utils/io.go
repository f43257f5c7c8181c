package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadInput reads all of r. When r is a terminal rather than a pipe it
// fails instead of blocking on keyboard input.
func ReadInput(r io.Reader, hint string) ([]byte, error) {
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat stdin: %w", err)
		}
		// ModeCharDevice means a terminal is attached.
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			if hint != "" {
				return nil, fmt.Errorf("no data provided on stdin (hint: %s)", hint)
			}
			return nil, fmt.Errorf("no data provided on stdin")
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}
