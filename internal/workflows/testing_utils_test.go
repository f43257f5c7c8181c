package workflows

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	"github.com/MohiZzine/rsa-encryption-app/internal/keystore"
	logger "github.com/MohiZzine/rsa-encryption-app/internal/logging"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
)

// newTestEnv returns an Env backed by a temporary TOML store and an
// in-memory history. A nil cfg uses the defaults.
func newTestEnv(t *testing.T, cfg *configs.Config) (*Env, *history.MemoryBackend) {
	t.Helper()
	store := keystore.NewFileStore(filepath.Join(t.TempDir(), "keys.toml"))
	backend := &history.MemoryBackend{}
	env, err := NewEnv(cfg, store, backend, logger.Logger{})
	if err != nil {
		t.Fatalf("NewEnv failed: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env, backend
}

// generateTestKey stores a 1024-bit key labelled label.
func generateTestKey(t *testing.T, env *Env, label string) *rsacrypt.KeyPair {
	t.Helper()
	result, err := GenerateKey(context.Background(), env, GenerateKeyOptions{Bits: 1024, Label: label})
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	return result.KeyPair
}

func lastEntry(t *testing.T, backend *history.MemoryBackend) history.Entry {
	t.Helper()
	entries, err := backend.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("Expected a history entry")
	}
	return entries[0]
}
