package workflows

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	logger "github.com/MohiZzine/rsa-encryption-app/internal/logging"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	"golang.org/x/crypto/ssh"
)

func TestGenerateKey(t *testing.T) {
	env, backend := newTestEnv(t, nil)

	result, err := GenerateKey(context.Background(), env, GenerateKeyOptions{Bits: 1024, Label: " backup "})
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	kp := result.KeyPair
	if kp.Label != "backup" {
		t.Errorf("Label = %q, want backup", kp.Label)
	}
	if kp.KeySizeBits != 1024 {
		t.Errorf("KeySizeBits = %d, want 1024", kp.KeySizeBits)
	}
	if result.ChunkLimit != 97 {
		t.Errorf("ChunkLimit = %d, want 97 from the estimate", result.ChunkLimit)
	}
	if len(result.Fingerprint) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(result.Fingerprint))
	}

	stored, err := env.Store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != kp.ID {
		t.Errorf("Expected stored key %s, got %+v", kp.ID, stored)
	}

	entry := lastEntry(t, backend)
	if entry.Operation != history.OpGenerate || !entry.Success || entry.KeyID != kp.ID {
		t.Errorf("Unexpected history entry: %+v", entry)
	}
}

func TestGenerateKey_UsesConfiguredSizer(t *testing.T) {
	cfg := configs.DefaultConfig()
	cfg.Envelope.KeySizer = configs.SizerModulus
	env, _ := newTestEnv(t, cfg)

	result, err := GenerateKey(context.Background(), env, GenerateKeyOptions{Bits: 1024})
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	if result.ChunkLimit != 117 {
		t.Errorf("ChunkLimit = %d, want 117 from the modulus", result.ChunkLimit)
	}
}

func TestGenerateKey_UnsupportedSize(t *testing.T) {
	env, backend := newTestEnv(t, nil)

	_, err := GenerateKey(context.Background(), env, GenerateKeyOptions{Bits: 1000})
	if !errors.Is(err, kerrors.ErrUnsupportedKeySize) {
		t.Fatalf("Expected ErrUnsupportedKeySize, got %v", err)
	}

	entry := lastEntry(t, backend)
	if entry.Success || entry.Error == "" {
		t.Errorf("Expected failed history entry, got %+v", entry)
	}
}

func TestGenerateKey_Canceled(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := GenerateKey(ctx, env, GenerateKeyOptions{Bits: 1024}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestShowAndDeleteKey(t *testing.T) {
	env, backend := newTestEnv(t, nil)
	kp := generateTestKey(t, env, "work")

	shown, err := ShowKey(context.Background(), env, ShowKeyOptions{Ref: "work"})
	if err != nil {
		t.Fatalf("ShowKey failed: %v", err)
	}
	if shown.KeyPair.ID != kp.ID {
		t.Errorf("ShowKey returned %s, want %s", shown.KeyPair.ID, kp.ID)
	}
	if shown.ChunkLimit != 97 || shown.ExactChunkLimit != 117 {
		t.Errorf("limits = %d/%d, want 97/117", shown.ChunkLimit, shown.ExactChunkLimit)
	}

	deleted, err := DeleteKey(context.Background(), env, DeleteKeyOptions{Ref: kp.ID[:8]})
	if err != nil {
		t.Fatalf("DeleteKey failed: %v", err)
	}
	if deleted.KeyPair.ID != kp.ID {
		t.Errorf("DeleteKey removed %s, want %s", deleted.KeyPair.ID, kp.ID)
	}
	if entry := lastEntry(t, backend); entry.Operation != history.OpDelete || !entry.Success {
		t.Errorf("Unexpected history entry: %+v", entry)
	}

	if _, err := ShowKey(context.Background(), env, ShowKeyOptions{Ref: kp.ID}); !errors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestShowKey_EmptyRef(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	if _, err := ShowKey(context.Background(), env, ShowKeyOptions{}); !errors.Is(err, kerrors.ErrNoKeySpecified) {
		t.Errorf("Expected ErrNoKeySpecified, got %v", err)
	}
}

func TestListKeys(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	generateTestKey(t, env, "one")
	generateTestKey(t, env, "two")

	result, err := ListKeys(context.Background(), env)
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(result.KeyPairs) != 2 {
		t.Errorf("Expected 2 keys, got %d", len(result.KeyPairs))
	}
}

func TestImportKey_PrivateOnly(t *testing.T) {
	env, backend := newTestEnv(t, nil)
	source, err := rsacrypt.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	result, err := ImportKey(context.Background(), env, ImportKeyOptions{PrivateKeyPEM: source.PrivateKey, Label: "imported"})
	if err != nil {
		t.Fatalf("ImportKey failed: %v", err)
	}
	if result.KeyPair.PublicKey != source.PublicKey {
		t.Error("Derived public key should match the source public key")
	}
	if result.KeyPair.KeySizeBits != 1024 {
		t.Errorf("KeySizeBits = %d, want 1024", result.KeyPair.KeySizeBits)
	}
	if result.KeyPair.ID == source.ID {
		t.Error("Imported key should get a fresh ID")
	}
	if entry := lastEntry(t, backend); entry.Operation != history.OpImport || !entry.Success {
		t.Errorf("Unexpected history entry: %+v", entry)
	}
}

func TestImportKey_PKCS8(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("MarshalPKCS8PrivateKey failed: %v", err)
	}
	pkcs8 := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	result, err := ImportKey(context.Background(), env, ImportKeyOptions{PrivateKeyPEM: pkcs8})
	if err != nil {
		t.Fatalf("ImportKey failed: %v", err)
	}
	if !rsacrypt.ValidateKeyFormat(result.KeyPair.PrivateKey, rsacrypt.PrivateKey) {
		t.Error("Stored private key should be normalized to PKCS#1 armor")
	}
}

func TestImportKey_ProtectedOpenSSH(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	block, err := ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte("hunter2"))
	if err != nil {
		t.Fatalf("MarshalPrivateKeyWithPassphrase failed: %v", err)
	}
	protected := string(pem.EncodeToMemory(block))

	if _, err := ImportKey(context.Background(), env, ImportKeyOptions{PrivateKeyPEM: protected}); !errors.Is(err, kerrors.ErrInvalidPrivateKey) {
		t.Errorf("Expected ErrInvalidPrivateKey without passphrase, got %v", err)
	}

	result, err := ImportKey(context.Background(), env, ImportKeyOptions{PrivateKeyPEM: protected, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("ImportKey with passphrase failed: %v", err)
	}
	if result.KeyPair.KeySizeBits != 1024 {
		t.Errorf("KeySizeBits = %d, want 1024", result.KeyPair.KeySizeBits)
	}
}

func TestImportKey_PublicOnly(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	source, err := rsacrypt.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	result, err := ImportKey(context.Background(), env, ImportKeyOptions{PublicKeyPEM: source.PublicKey})
	if err != nil {
		t.Fatalf("ImportKey failed: %v", err)
	}
	if result.KeyPair.HasPrivateKey() {
		t.Error("Public-only import should not have a private key")
	}
}

func TestImportKey_Mismatch(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	a, _ := rsacrypt.GenerateKeyPair(1024)
	b, _ := rsacrypt.GenerateKeyPair(1024)

	_, err := ImportKey(context.Background(), env, ImportKeyOptions{PublicKeyPEM: a.PublicKey, PrivateKeyPEM: b.PrivateKey})
	if !errors.Is(err, kerrors.ErrKeyMismatch) {
		t.Errorf("Expected ErrKeyMismatch, got %v", err)
	}
}

func TestImportKey_Nothing(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	if _, err := ImportKey(context.Background(), env, ImportKeyOptions{}); !errors.Is(err, kerrors.ErrNoKeySpecified) {
		t.Errorf("Expected ErrNoKeySpecified, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	kp, err := rsacrypt.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	garbage := rsacrypt.PublicKeyHeader + "\nnot-a-key\n" + rsacrypt.PublicKeyFooter

	tests := []struct {
		name       string
		text       string
		kind       rsacrypt.KeyKind
		wantFormat bool
		wantParses bool
	}{
		{"valid public", kp.PublicKey, rsacrypt.PublicKey, true, true},
		{"valid private", kp.PrivateKey, rsacrypt.PrivateKey, true, true},
		{"wrong kind", kp.PublicKey, rsacrypt.PrivateKey, false, false},
		{"garbage body", garbage, rsacrypt.PublicKey, true, false},
		{"empty", "", rsacrypt.PublicKey, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateKey(context.Background(), ValidateKeyOptions{Text: tt.text, Kind: tt.kind})
			if err != nil {
				t.Fatalf("ValidateKey failed: %v", err)
			}
			if result.FormatValid != tt.wantFormat || result.Parses != tt.wantParses {
				t.Errorf("got format=%v parses=%v, want %v/%v", result.FormatValid, result.Parses, tt.wantFormat, tt.wantParses)
			}
			if tt.wantParses && result.KeySizeBits != 1024 {
				t.Errorf("KeySizeBits = %d, want 1024", result.KeySizeBits)
			}
		})
	}
}

func TestNewEnv_InvalidConfig(t *testing.T) {
	cfg := configs.DefaultConfig()
	cfg.Envelope.KeySizer = "guess"
	if _, err := NewEnv(cfg, nil, nil, logger.Logger{}); !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
