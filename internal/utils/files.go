package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// EncryptedExt is appended to a file's name when it is encrypted.
const EncryptedExt = ".rsa"

// Target selects which files ResolveFiles keeps.
type Target int

const (
	// PlainFiles are files that are not yet encrypted.
	PlainFiles Target = iota
	// EncryptedFiles end in EncryptedExt.
	EncryptedFiles
)

func (t Target) matches(path string) bool {
	encrypted := strings.HasSuffix(filepath.Base(path), EncryptedExt)
	if t == EncryptedFiles {
		return encrypted
	}
	return !encrypted
}

// ResolveFiles expands user-provided paths, directories and globs relative
// to baseDir. Results are absolute, deduplicated and in argument order.
// Globs support ** through doublestar.
func ResolveFiles(patterns []string, baseDir string, target Target) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir, target)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	return files, nil
}

func resolvePattern(pattern, baseDir string, target Target) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern, target)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(absPattern, pattern, target)
	}

	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
		}
		return nil, err
	}

	// Literal paths are taken as given, except that decrypting requires
	// the encrypted extension.
	if target == EncryptedFiles && !target.matches(absPattern) {
		return nil, fmt.Errorf("file is not a %s file: %s", EncryptedExt, pattern)
	}

	return []string{absPattern}, nil
}

func expandGlob(absPattern, pattern string, target Target) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if target.matches(m) {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

func findFilesInDir(dir string, target Target) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if target.matches(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
