package workflows

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
)

var errSignatureMismatch = errors.New("signature mismatch")

// EncryptMessageOptions configures message encryption. KeyRef selects a
// stored key; otherwise PublicKeyPEM is used.
type EncryptMessageOptions struct {
	KeyRef       string
	PublicKeyPEM string
	Message      []byte
}

// EncryptMessageResult contains the envelope and its wire text.
type EncryptMessageResult struct {
	Envelope   rsacrypt.Envelope
	Text       string
	KeyID      string
	ChunkLimit int
}

// EncryptMessage encrypts a message into an envelope rendered in the
// configured wire format.
func EncryptMessage(ctx context.Context, env *Env, opts EncryptMessageOptions) (result *EncryptMessageResult, err error) {
	entry := history.Entry{Operation: history.OpEncrypt, Bytes: len(opts.Message)}
	defer func() { env.record(entry, err) }()

	key, err := env.publicKey(opts.KeyRef, opts.PublicKeyPEM)
	if err != nil {
		return nil, err
	}
	entry.KeyID, entry.KeySizeBits = key.KeyID, key.KeySizeBits

	limit, err := env.Cipher.ChunkLimit(key.PEM)
	if err != nil {
		return nil, err
	}
	env.Logger.Debugf("Chunk limit is %d bytes for a %d byte message", limit, len(opts.Message))

	envelope, err := env.Cipher.EncryptContext(ctx, key.PEM, opts.Message)
	if err != nil {
		return nil, err
	}
	entry.Chunks = envelope.Len()

	text, err := env.formatEnvelope(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrEncryption, err)
	}

	return &EncryptMessageResult{
		Envelope:   envelope,
		Text:       text,
		KeyID:      key.KeyID,
		ChunkLimit: limit,
	}, nil
}

// DecryptMessageOptions configures message decryption. KeyRef selects a
// stored key; otherwise PrivateKeyPEM is used.
type DecryptMessageOptions struct {
	KeyRef        string
	PrivateKeyPEM string
	Passphrase    []byte

	// EnvelopeText is accepted in tagged or legacy form.
	EnvelopeText string
}

// DecryptMessageResult contains the recovered plaintext.
type DecryptMessageResult struct {
	Plaintext []byte
	Chunks    int
	KeyID     string
}

// DecryptMessage parses and decrypts an envelope. It never returns partial
// plaintext.
func DecryptMessage(ctx context.Context, env *Env, opts DecryptMessageOptions) (result *DecryptMessageResult, err error) {
	entry := history.Entry{Operation: history.OpDecrypt}
	defer func() { env.record(entry, err) }()

	key, err := env.privateKey(opts.KeyRef, opts.PrivateKeyPEM, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	entry.KeyID, entry.KeySizeBits = key.KeyID, key.KeySizeBits

	envelope, err := rsacrypt.ParseEnvelope(opts.EnvelopeText)
	if err != nil {
		return nil, err
	}
	entry.Chunks = envelope.Len()
	env.Logger.Debugf("Decrypting %s envelope with %d chunk(s)", envelope.Kind, envelope.Len())

	plaintext, err := env.Cipher.DecryptContext(ctx, key.PEM, envelope)
	if err != nil {
		return nil, err
	}
	entry.Bytes = len(plaintext)

	return &DecryptMessageResult{
		Plaintext: plaintext,
		Chunks:    envelope.Len(),
		KeyID:     key.KeyID,
	}, nil
}

// SignMessageOptions configures signing.
type SignMessageOptions struct {
	KeyRef        string
	PrivateKeyPEM string
	Passphrase    []byte
	Message       string
}

// SignMessageResult contains the signed message.
type SignMessageResult struct {
	Signed *rsacrypt.SignedMessage
	KeyID  string
}

// SignMessage hashes the message with SHA-256 and signs the digest.
func SignMessage(ctx context.Context, env *Env, opts SignMessageOptions) (result *SignMessageResult, err error) {
	entry := history.Entry{Operation: history.OpSign, Bytes: len(opts.Message)}
	defer func() { env.record(entry, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := env.privateKey(opts.KeyRef, opts.PrivateKeyPEM, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	entry.KeyID, entry.KeySizeBits = key.KeyID, key.KeySizeBits

	signed, err := rsacrypt.Sign(key.PEM, opts.Message)
	if err != nil {
		return nil, err
	}
	return &SignMessageResult{Signed: signed, KeyID: key.KeyID}, nil
}

// VerifyMessageOptions configures verification.
type VerifyMessageOptions struct {
	KeyRef       string
	PublicKeyPEM string
	Message      string
	Signature    string
}

// VerifyMessageResult reports the verdict. Hash is recomputed from the
// message, never taken from the caller.
type VerifyMessageResult struct {
	Verified bool
	Hash     string
	KeyID    string
}

// VerifyMessage checks a signature. A bad signature is a result, not an
// error; errors mean the key could not be resolved.
func VerifyMessage(ctx context.Context, env *Env, opts VerifyMessageOptions) (result *VerifyMessageResult, err error) {
	entry := history.Entry{Operation: history.OpVerify, Bytes: len(opts.Message)}
	defer func() {
		recorded := err
		if err == nil && !result.Verified {
			recorded = errSignatureMismatch
		}
		env.record(entry, recorded)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := env.publicKey(opts.KeyRef, opts.PublicKeyPEM)
	if err != nil {
		return nil, err
	}
	entry.KeyID, entry.KeySizeBits = key.KeyID, key.KeySizeBits

	return &VerifyMessageResult{
		Verified: rsacrypt.Verify(key.PEM, opts.Message, opts.Signature),
		Hash:     rsacrypt.HashMessage(opts.Message),
		KeyID:    key.KeyID,
	}, nil
}
