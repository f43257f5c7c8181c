package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	"github.com/MohiZzine/rsa-encryption-app/internal/payload"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	"github.com/MohiZzine/rsa-encryption-app/internal/utils"
)

// FileResult describes one processed file.
type FileResult struct {
	Source   string
	Output   string
	MimeType string
	Bytes    int64
	Chunks   int
}

// EncryptFilesOptions configures file encryption.
type EncryptFilesOptions struct {
	KeyRef       string
	PublicKeyPEM string

	// Patterns are paths, directories or globs relative to BaseDir.
	Patterns []string
	BaseDir  string

	// OutDir receives the .rsa files. Empty writes next to each source.
	OutDir string

	// DryRun lists the files that would be written without encrypting.
	DryRun bool
}

// EncryptFilesResult lists the files written (or planned, on a dry run).
type EncryptFilesResult struct {
	Files  []FileResult
	DryRun bool
}

// EncryptFiles wraps each file in a JSON payload, encrypts it and writes
// <name>.rsa with mode 0600. Processing stops at the first failure; a file
// that fails is never written.
//
// Returns ErrNoFilesFound if no files match the patterns.
func EncryptFiles(ctx context.Context, env *Env, opts EncryptFilesOptions) (*EncryptFilesResult, error) {
	key, err := env.publicKey(opts.KeyRef, opts.PublicKeyPEM)
	if err != nil {
		return nil, err
	}

	sources, err := utils.ResolveFiles(opts.Patterns, baseDir(opts.BaseDir), utils.PlainFiles)
	if err != nil {
		return nil, err
	}
	env.Logger.Debugf("Resolved %d file(s) to encrypt", len(sources))

	result := &EncryptFilesResult{DryRun: opts.DryRun}
	for _, src := range sources {
		out := filepath.Join(outputDir(opts.OutDir, src), filepath.Base(src)+utils.EncryptedExt)
		if opts.DryRun {
			result.Files = append(result.Files, FileResult{Source: src, Output: out})
			continue
		}

		fr, err := encryptFile(ctx, env, key, src, out)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, *fr)
	}

	return result, nil
}

func encryptFile(ctx context.Context, env *Env, key *resolvedKey, src, out string) (fr *FileResult, err error) {
	entry := history.Entry{
		Operation:   history.OpEncryptFile,
		KeyID:       key.KeyID,
		KeySizeBits: key.KeySizeBits,
		File:        filepath.Base(src),
	}
	defer func() { env.record(entry, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	entry.Bytes = len(content)

	wrapped, err := payload.Wrap(content, filepath.Base(src), "", int64(len(content)))
	if err != nil {
		return nil, err
	}
	plaintext, err := wrapped.Marshal()
	if err != nil {
		return nil, err
	}

	envelope, err := env.Cipher.EncryptContext(ctx, key.PEM, []byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("encrypting %s: %w", src, err)
	}
	entry.Chunks = envelope.Len()

	text, err := env.formatEnvelope(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrEncryption, err)
	}
	if err := writeFileAtomic(out, []byte(text)); err != nil {
		return nil, err
	}
	env.Logger.Infof("Encrypted %s (%d chunk(s))", src, envelope.Len())

	return &FileResult{
		Source:   src,
		Output:   out,
		MimeType: wrapped.MimeType,
		Bytes:    int64(len(content)),
		Chunks:   envelope.Len(),
	}, nil
}

// DecryptFilesOptions configures file decryption.
type DecryptFilesOptions struct {
	KeyRef        string
	PrivateKeyPEM string
	Passphrase    []byte

	// Patterns are .rsa files, directories or globs relative to BaseDir.
	Patterns []string
	BaseDir  string

	// OutDir receives the restored files. Empty writes next to each source.
	OutDir string

	DryRun bool
}

// DecryptFilesResult lists the files restored (or planned, on a dry run).
type DecryptFilesResult struct {
	Files  []FileResult
	DryRun bool
}

// DecryptFiles decrypts each .rsa file and restores the payload under its
// original base name. Processing stops at the first failure.
//
// A dry run cannot see the stored names, so it reports the source name
// without the .rsa extension.
func DecryptFiles(ctx context.Context, env *Env, opts DecryptFilesOptions) (*DecryptFilesResult, error) {
	key, err := env.privateKey(opts.KeyRef, opts.PrivateKeyPEM, opts.Passphrase)
	if err != nil {
		return nil, err
	}

	sources, err := utils.ResolveFiles(opts.Patterns, baseDir(opts.BaseDir), utils.EncryptedFiles)
	if err != nil {
		return nil, err
	}
	env.Logger.Debugf("Resolved %d file(s) to decrypt", len(sources))

	result := &DecryptFilesResult{DryRun: opts.DryRun}
	for _, src := range sources {
		dir := outputDir(opts.OutDir, src)
		if opts.DryRun {
			out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(src), utils.EncryptedExt))
			result.Files = append(result.Files, FileResult{Source: src, Output: out})
			continue
		}

		fr, err := decryptFile(ctx, env, key, src, dir)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, *fr)
	}

	return result, nil
}

func decryptFile(ctx context.Context, env *Env, key *resolvedKey, src, dir string) (fr *FileResult, err error) {
	entry := history.Entry{
		Operation:   history.OpDecryptFile,
		KeyID:       key.KeyID,
		KeySizeBits: key.KeySizeBits,
		File:        filepath.Base(src),
	}
	defer func() { env.record(entry, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}

	envelope, err := rsacrypt.ParseEnvelope(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src, err)
	}
	entry.Chunks = envelope.Len()

	plaintext, err := env.Cipher.DecryptContext(ctx, key.PEM, envelope)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", src, err)
	}

	file, err := payload.Unwrap(string(plaintext))
	if err != nil {
		return nil, fmt.Errorf("unwrapping %s: %w", src, err)
	}
	entry.Bytes = len(file.Content)

	out := filepath.Join(dir, restoredName(file.Name, src))
	if err := writeFileAtomic(out, file.Content); err != nil {
		return nil, err
	}
	env.Logger.Infof("Decrypted %s to %s", src, out)

	return &FileResult{
		Source:   src,
		Output:   out,
		MimeType: file.MimeType,
		Bytes:    int64(len(file.Content)),
		Chunks:   envelope.Len(),
	}, nil
}

// restoredName reduces a payload name to a base name so it cannot escape
// the output directory. Unusable names fall back to the source name.
func restoredName(name, src string) string {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return strings.TrimSuffix(filepath.Base(src), utils.EncryptedExt)
	}
	return base
}

func baseDir(dir string) string {
	if dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func outputDir(outDir, src string) string {
	if outDir != "" {
		return outDir
	}
	return filepath.Dir(src)
}

// writeFileAtomic writes data with mode 0600 through a temporary file so a
// failed write never leaves a truncated output.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
