package rsacrypt

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
)

// SignedMessage is a message with its signature and the hex digest that was signed.
// Hash is informational; Verify always recomputes it.
type SignedMessage struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Hash      string `json:"hash"`
}

// HashMessage returns the hex-encoded SHA-256 of message.
func HashMessage(message string) string {
	sum := sha256.Sum256([]byte(message))
	return hex.EncodeToString(sum[:])
}

// signingDigest is the SHA-256 of the hex digest text. The signature binds
// the hex hash, not the raw message, so it never hits the block size limit.
func signingDigest(hash string) []byte {
	sum := sha256.Sum256([]byte(hash))
	return sum[:]
}

// Sign hashes message with SHA-256 and signs the hex digest with
// RSASSA-PKCS1-v1_5. The signature is base64 encoded.
func Sign(privateKeyPEM, message string) (*SignedMessage, error) {
	priv, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrSigning, err)
	}

	hash := HashMessage(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, signingDigest(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSigning, err)
	}

	return &SignedMessage{
		Message:   message,
		Signature: base64.StdEncoding.EncodeToString(sig),
		Hash:      hash,
	}, nil
}

// Verify reports whether signature is valid for message under publicKeyPEM.
// A malformed key or signature reports false rather than an error.
func Verify(publicKeyPEM, message, signature string) bool {
	pub, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, signingDigest(HashMessage(message)), sig) == nil
}
