package rsacrypt

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
)

// Cipher runs the chunked envelope protocol over RSA PKCS#1 v1.5.
// A Cipher holds no mutable state and is safe for concurrent use.
type Cipher struct {
	sizer KeySizer
	rand  io.Reader
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithKeySizer replaces the default EstimatingSizer.
func WithKeySizer(s KeySizer) Option {
	return func(c *Cipher) {
		if s != nil {
			c.sizer = s
		}
	}
}

// WithRand replaces crypto/rand as the padding randomness source.
func WithRand(r io.Reader) Option {
	return func(c *Cipher) {
		if r != nil {
			c.rand = r
		}
	}
}

// NewCipher returns a Cipher using the estimating key sizer unless overridden.
func NewCipher(opts ...Option) *Cipher {
	c := &Cipher{sizer: EstimatingSizer{}, rand: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCipher = NewCipher()

// ChunkLimit returns the plaintext bytes per block this Cipher uses for the key.
func (c *Cipher) ChunkLimit(publicKeyPEM string) (int, error) {
	bits, err := c.sizer.KeySizeBits(publicKeyPEM)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: %v", kerrors.ErrEncryption, kerrors.ErrInvalidPublicKey, err)
	}
	limit := MaxPlaintextBytes(bits)
	if limit <= 0 {
		return 0, fmt.Errorf("%w: %w: %d bits", kerrors.ErrEncryption, kerrors.ErrKeyTooSmall, bits)
	}
	return limit, nil
}

// Encrypt encrypts plaintext for the holder of the private key matching publicKeyPEM.
func (c *Cipher) Encrypt(publicKeyPEM string, plaintext []byte) (Envelope, error) {
	return c.EncryptContext(context.Background(), publicKeyPEM, plaintext)
}

// EncryptContext is Encrypt with cancellation checked between chunks.
//
// Plaintext that fits in one block yields a Single envelope. Longer
// plaintext is cut on byte boundaries into blocks of exactly the chunk
// limit (the last may be shorter) and yields a Chunked envelope. Any
// failure aborts the whole operation.
func (c *Cipher) EncryptContext(ctx context.Context, publicKeyPEM string, plaintext []byte) (Envelope, error) {
	limit, err := c.ChunkLimit(publicKeyPEM)
	if err != nil {
		return Envelope{}, err
	}

	pub, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", kerrors.ErrEncryption, err)
	}

	slices := SplitChunks(plaintext, limit)
	kind := Single
	if len(slices) > 1 {
		kind = Chunked
	}

	chunks := make([]string, 0, len(slices))
	for i, slice := range slices {
		if err := ctx.Err(); err != nil {
			return Envelope{}, &kerrors.ChunkError{Op: "encrypt", Index: i, Total: len(slices), Kind: kerrors.ErrEncryption, Err: err}
		}
		ct, err := rsa.EncryptPKCS1v15(c.rand, pub, slice)
		if err != nil {
			return Envelope{}, &kerrors.ChunkError{Op: "encrypt", Index: i, Total: len(slices), Kind: kerrors.ErrEncryption, Err: err}
		}
		chunks = append(chunks, base64.StdEncoding.EncodeToString(ct))
	}

	return Envelope{Kind: kind, Chunks: chunks}, nil
}

// Decrypt decrypts every chunk in order and concatenates the results.
func (c *Cipher) Decrypt(privateKeyPEM string, env Envelope) ([]byte, error) {
	return c.DecryptContext(context.Background(), privateKeyPEM, env)
}

// DecryptContext is Decrypt with cancellation checked between chunks.
// No plaintext is returned unless every chunk decrypts.
func (c *Cipher) DecryptContext(ctx context.Context, privateKeyPEM string, env Envelope) ([]byte, error) {
	if err := env.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryption, err)
	}

	priv, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryption, err)
	}

	limit := MaxPlaintextBytes(priv.N.BitLen())
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %w: %d-bit key", kerrors.ErrDecryption, kerrors.ErrKeyTooSmall, priv.N.BitLen())
	}

	var out bytes.Buffer
	out.Grow(len(env.Chunks) * limit)
	for i, chunk := range env.Chunks {
		if err := ctx.Err(); err != nil {
			return nil, &kerrors.ChunkError{Op: "decrypt", Index: i, Total: len(env.Chunks), Kind: kerrors.ErrDecryption, Err: err}
		}
		ct, err := base64.StdEncoding.DecodeString(chunk)
		if err != nil {
			return nil, &kerrors.ChunkError{Op: "decrypt", Index: i, Total: len(env.Chunks), Kind: kerrors.ErrDecryption, Err: fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)}
		}
		pt, err := rsa.DecryptPKCS1v15(c.rand, priv, ct)
		if err != nil {
			return nil, &kerrors.ChunkError{Op: "decrypt", Index: i, Total: len(env.Chunks), Kind: kerrors.ErrDecryption, Err: err}
		}
		out.Write(pt)
	}

	return out.Bytes(), nil
}

// SplitChunks cuts data into contiguous slices of at most limit bytes.
// Empty data yields a single empty slice so it still encrypts to one block.
func SplitChunks(data []byte, limit int) [][]byte {
	if limit <= 0 {
		return nil
	}
	if len(data) <= limit {
		return [][]byte{data}
	}
	chunks := make([][]byte, 0, (len(data)+limit-1)/limit)
	for start := 0; start < len(data); start += limit {
		end := min(start+limit, len(data))
		chunks = append(chunks, data[start:end])
	}
	return chunks
}

// Encrypt encrypts plaintext with the default Cipher.
func Encrypt(publicKeyPEM string, plaintext []byte) (Envelope, error) {
	return defaultCipher.Encrypt(publicKeyPEM, plaintext)
}

// Decrypt decrypts env with the default Cipher.
func Decrypt(privateKeyPEM string, env Envelope) ([]byte, error) {
	return defaultCipher.Decrypt(privateKeyPEM, env)
}

// EncryptString encrypts a message and returns the tagged envelope text.
func EncryptString(publicKeyPEM, message string) (string, error) {
	env, err := Encrypt(publicKeyPEM, []byte(message))
	if err != nil {
		return "", err
	}
	text, err := env.MarshalText()
	if err != nil {
		return "", fmt.Errorf("%w: %w", kerrors.ErrEncryption, err)
	}
	return string(text), nil
}

// DecryptString parses envelope text in either wire form and decrypts it.
func DecryptString(privateKeyPEM, envelopeText string) (string, error) {
	env, err := ParseEnvelope(envelopeText)
	if err != nil {
		return "", err
	}
	plaintext, err := Decrypt(privateKeyPEM, env)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
