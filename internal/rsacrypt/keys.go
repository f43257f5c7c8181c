package rsacrypt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"
	"time"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
)

const (
	// DefaultKeySizeBits is used when no size is requested.
	DefaultKeySizeBits = 2048

	// MinKeySizeBits and MaxKeySizeBits bound the sizes GenerateKeyPair accepts.
	MinKeySizeBits = 1024
	MaxKeySizeBits = 8192

	// keySizeStep is the granularity of supported modulus sizes.
	keySizeStep = 256
)

// PEM block types and the literal armor lines they produce.
const (
	PublicKeyBlockType  = "PUBLIC KEY"
	PrivateKeyBlockType = "RSA PRIVATE KEY"

	PublicKeyHeader  = "-----BEGIN " + PublicKeyBlockType + "-----"
	PublicKeyFooter  = "-----END " + PublicKeyBlockType + "-----"
	PrivateKeyHeader = "-----BEGIN " + PrivateKeyBlockType + "-----"
	PrivateKeyFooter = "-----END " + PrivateKeyBlockType + "-----"
)

// KeyKind selects which PEM armor ValidateKeyFormat expects.
type KeyKind int

const (
	PublicKey KeyKind = iota
	PrivateKey
)

func (k KeyKind) String() string {
	switch k {
	case PublicKey:
		return "public"
	case PrivateKey:
		return "private"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// ParseKeyKind maps "public" or "private" to a KeyKind.
func ParseKeyKind(s string) (KeyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "pub":
		return PublicKey, nil
	case "private", "priv":
		return PrivateKey, nil
	default:
		return 0, fmt.Errorf("unknown key kind %q (want public or private)", s)
	}
}

// KeyPair is a generated RSA key pair in PEM form.
// It is never mutated after generation.
type KeyPair struct {
	ID          string    `json:"id" toml:"id"`
	Label       string    `json:"label,omitempty" toml:"label"`
	PublicKey   string    `json:"publicKey" toml:"public_key"`
	PrivateKey  string    `json:"privateKey,omitempty" toml:"private_key"`
	KeySizeBits int       `json:"keySize" toml:"key_size"`
	CreatedAt   time.Time `json:"createdAt" toml:"created_at"`
}

// HasPrivateKey reports whether the pair carries private key material.
// Imported public-only keys can encrypt and verify but not decrypt or sign.
func (kp KeyPair) HasPrivateKey() bool {
	return strings.TrimSpace(kp.PrivateKey) != ""
}

// SupportedKeySize reports whether GenerateKeyPair accepts bits.
func SupportedKeySize(bits int) bool {
	return bits >= MinKeySizeBits && bits <= MaxKeySizeBits && bits%keySizeStep == 0
}

// GenerateKeyPair creates a fresh RSA key pair with a modulus of the requested size.
// A size of 0 selects DefaultKeySizeBits.
func GenerateKeyPair(bits int) (*KeyPair, error) {
	if bits == 0 {
		bits = DefaultKeySizeBits
	}
	if !SupportedKeySize(bits) {
		return nil, fmt.Errorf("%w: %w: %d bits (want a multiple of %d between %d and %d)",
			kerrors.ErrKeyGeneration, kerrors.ErrUnsupportedKeySize, bits, keySizeStep, MinKeySizeBits, MaxKeySizeBits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyGeneration, err)
	}

	pubPEM, err := EncodePublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyGeneration, err)
	}

	return &KeyPair{
		ID:          uuid.NewString(),
		PublicKey:   pubPEM,
		PrivateKey:  EncodePrivateKey(privateKey),
		KeySizeBits: bits,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// EncodePublicKey marshals an RSA public key to PKIX PEM without a trailing newline.
func EncodePublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: PublicKeyBlockType, Bytes: der})
	return strings.TrimSpace(string(block)), nil
}

// ValidateKeyFormat reports whether keyText starts with the PEM header and ends
// with the PEM footer for kind. The body is not inspected, so a key with
// correct armor and a garbage body still passes.
func ValidateKeyFormat(keyText string, kind KeyKind) bool {
	var header, footer string
	switch kind {
	case PublicKey:
		header, footer = PublicKeyHeader, PublicKeyFooter
	case PrivateKey:
		header, footer = PrivateKeyHeader, PrivateKeyFooter
	default:
		return false
	}
	return strings.HasPrefix(keyText, header) && strings.HasSuffix(keyText, footer)
}

// ParsePublicKey decodes a PKIX "PUBLIC KEY" PEM block holding an RSA key.
func ParsePublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(publicKeyPEM)))
	if block == nil || block.Type != PublicKeyBlockType {
		return nil, fmt.Errorf("%w: no %s PEM block", kerrors.ErrInvalidPublicKey, PublicKeyBlockType)
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPublicKey, err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", kerrors.ErrInvalidPublicKey)
	}
	return rsaPub, nil
}

// ParsePrivateKey decodes an RSA private key. PKCS#1 ("RSA PRIVATE KEY"),
// PKCS#8 ("PRIVATE KEY") and unencrypted OpenSSH keys are accepted.
func ParsePrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	data := []byte(strings.TrimSpace(privateKeyPEM))
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block", kerrors.ErrInvalidPrivateKey)
	}

	switch block.Type {
	case PrivateKeyBlockType:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
		}
		return key, nil
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
		}
		return asRSAPrivateKey(key)
	case "OPENSSH PRIVATE KEY":
		return ParseOpenSSHPrivateKey(data, nil)
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", kerrors.ErrInvalidPrivateKey, block.Type)
	}
}

// ParseOpenSSHPrivateKey parses an OpenSSH private key, using passphrase when
// the key is protected.
func ParseOpenSSHPrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	var (
		key any
		err error
	)
	if len(passphrase) > 0 {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(data, passphrase)
	} else {
		key, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if kerrors.As(err, &missing) {
			return nil, fmt.Errorf("%w: key is passphrase protected", kerrors.ErrInvalidPrivateKey)
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
	}
	return asRSAPrivateKey(key)
}

// IsPassphraseProtected reports whether data is an OpenSSH key that needs a passphrase.
func IsPassphraseProtected(data []byte) bool {
	_, err := ssh.ParseRawPrivateKey(data)
	var missing *ssh.PassphraseMissingError
	return kerrors.As(err, &missing)
}

func asRSAPrivateKey(key any) (*rsa.PrivateKey, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("%w: not an RSA private key (%T)", kerrors.ErrInvalidPrivateKey, key)
	}
}

// Fingerprint returns the hex SHA-256 of the public key's DER encoding.
func Fingerprint(publicKeyPEM string) (string, error) {
	pub, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return "", err
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrInvalidPublicKey, err)
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:]), nil
}

// PublicKeyFromPrivate derives the PKIX public key PEM from a private key PEM.
func PublicKeyFromPrivate(privateKeyPEM string) (string, int, error) {
	priv, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", 0, err
	}
	pub, err := EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return "", 0, err
	}
	return pub, priv.N.BitLen(), nil
}

// EncodePrivateKey marshals an RSA private key to PKCS#1 PEM without a trailing newline.
func EncodePrivateKey(priv *rsa.PrivateKey) string {
	block := pem.EncodeToMemory(&pem.Block{
		Type:  PrivateKeyBlockType,
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	return strings.TrimSpace(string(block))
}
