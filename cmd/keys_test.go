package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
)

func TestKeysGenerateAndList(t *testing.T) {
	setupTestHome(t)

	generateTestKey(t, "work")
	generateTestKey(t, "home")

	out := mustRun(t, "", "keys", "list")
	for _, want := range []string{"LABEL", "work", "home", "1024"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected list output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestKeysListEmpty(t *testing.T) {
	setupTestHome(t)

	out := mustRun(t, "", "keys", "list")
	if !strings.Contains(out, "No keys yet") {
		t.Errorf("Expected empty-store hint, got: %s", out)
	}
}

func TestKeysGenerateRejectsUnsupportedSize(t *testing.T) {
	setupTestHome(t)

	_, _, err := runCLI(t, "", "keys", "generate", "--bits", "1000")
	if !kerrors.Is(err, kerrors.ErrUnsupportedKeySize) {
		t.Errorf("Expected ErrUnsupportedKeySize, got: %v", err)
	}
}

func TestKeysShow(t *testing.T) {
	setupTestHome(t)
	generateTestKey(t, "work")

	out := mustRun(t, "", "keys", "show", "work")
	for _, want := range []string{"Label:        work", "Size:         1024 bits", "Chunk limit:  97 bytes", "BEGIN PUBLIC KEY"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected show output to contain %q, got:\n%s", want, out)
		}
	}

	out = mustRun(t, "", "keys", "show", "work", "--private")
	if !strings.Contains(out, "PRIVATE KEY") {
		t.Errorf("Expected private key in output, got:\n%s", out)
	}
}

func TestKeysShowUnknown(t *testing.T) {
	setupTestHome(t)

	_, _, err := runCLI(t, "", "keys", "show", "nope")
	if !kerrors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got: %v", err)
	}
}

func TestKeysDelete(t *testing.T) {
	setupTestHome(t)
	generateTestKey(t, "work")

	out := mustRun(t, "n\n", "keys", "delete", "work")
	if !strings.Contains(out, "Aborted") {
		t.Errorf("Expected abort on 'n', got: %s", out)
	}
	mustRun(t, "", "keys", "show", "work")

	mustRun(t, "", "keys", "delete", "work", "--yes")
	if _, _, err := runCLI(t, "", "keys", "show", "work"); !kerrors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("Expected key to be gone, got: %v", err)
	}
}

func TestKeysImportPublicOnly(t *testing.T) {
	setupTestHome(t)
	publicPEM := generateTestKey(t, "source")

	path := filepath.Join(t.TempDir(), "alice.pem")
	if err := os.WriteFile(path, []byte(publicPEM), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "", "keys", "import", "--public-key", path, "--label", "alice")
	if !strings.Contains(out, "public key") {
		t.Errorf("Expected public-only import, got: %s", out)
	}

	list := mustRun(t, "", "keys", "list")
	if !strings.Contains(list, "alice") {
		t.Errorf("Expected imported key in list, got:\n%s", list)
	}

	// A public-only key encrypts but cannot decrypt.
	envelope := strings.TrimSpace(mustRun(t, "", "encrypt", "--key", "alice", "--message", "hi"))
	if _, _, err := runCLI(t, "", "decrypt", "--key", "alice", "--input", envelope); err == nil {
		t.Error("Expected decrypt with a public-only key to fail")
	}
}

func TestKeysImportPrivateFromStdin(t *testing.T) {
	setupTestHome(t)
	generateTestKey(t, "source")
	privatePEM := mustRun(t, "", "keys", "show", "source", "--private")
	privatePEM = privatePEM[strings.Index(privatePEM, "-----BEGIN"):]

	mustRun(t, privatePEM, "keys", "import", "--private-key-stdin", "--label", "copy")

	envelope := strings.TrimSpace(mustRun(t, "", "encrypt", "--key", "source", "--message", "shared"))
	out := mustRun(t, "", "decrypt", "--key", "copy", "--input", envelope)
	if strings.TrimSpace(out) != "shared" {
		t.Errorf("Expected imported private key to decrypt, got %q", out)
	}
}

func TestKeysImportRequiresAKey(t *testing.T) {
	setupTestHome(t)

	if _, _, err := runCLI(t, "", "keys", "import"); err == nil {
		t.Error("Expected import without key flags to fail")
	}
}

func TestKeysValidate(t *testing.T) {
	setupTestHome(t)
	publicPEM := generateTestKey(t, "work")

	path := filepath.Join(t.TempDir(), "work.pem")
	if err := os.WriteFile(path, []byte(publicPEM), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr bool
	}{
		{"public file", []string{"keys", "validate", path}, "", false},
		{"public from stdin", []string{"keys", "validate"}, publicPEM, false},
		{"wrong kind", []string{"keys", "validate", "--kind", "private", path}, "", true},
		{"garbage", []string{"keys", "validate"}, "not a key", true},
		{"unknown kind", []string{"keys", "validate", "--kind", "secret", path}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.stdin, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got: %v", tt.wantErr, err)
			}
		})
	}
}
