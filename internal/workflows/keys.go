package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	"github.com/MohiZzine/rsa-encryption-app/internal/keystore"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	"github.com/google/uuid"
)

// GenerateKeyOptions configures the generate workflow.
type GenerateKeyOptions struct {
	// Bits is the modulus size. Zero uses the configured default.
	Bits int

	// Label is an optional human-friendly name for the key.
	Label string
}

// GenerateKeyResult contains the stored key pair.
type GenerateKeyResult struct {
	KeyPair     *rsacrypt.KeyPair
	Fingerprint string

	// ChunkLimit is the plaintext bytes per block the configured sizer
	// derives for this key.
	ChunkLimit int
}

// GenerateKey creates a new key pair and saves it to the key store.
//
// Returns ErrKeyGeneration wrapping ErrUnsupportedKeySize for sizes outside
// 1024..8192 or not a multiple of 256.
func GenerateKey(ctx context.Context, env *Env, opts GenerateKeyOptions) (result *GenerateKeyResult, err error) {
	bits := opts.Bits
	if bits == 0 {
		bits = env.Config.Keys.DefaultSize
	}

	entry := history.Entry{Operation: history.OpGenerate, KeySizeBits: bits}
	defer func() {
		if result != nil {
			entry.KeyID = result.KeyPair.ID
		}
		env.record(entry, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env.Logger.Debugf("Generating %d-bit RSA key pair", bits)
	kp, err := rsacrypt.GenerateKeyPair(bits)
	if err != nil {
		return nil, err
	}
	kp.Label = strings.TrimSpace(opts.Label)

	if err := env.Store.Save(*kp); err != nil {
		return nil, fmt.Errorf("saving key pair: %w", err)
	}
	env.Logger.Infof("Saved key %s", kp.ID)

	return describeKey(env, kp)
}

// ImportKeyOptions configures the import workflow. At least one of
// PublicKeyPEM and PrivateKeyPEM must be set.
type ImportKeyOptions struct {
	PublicKeyPEM  string
	PrivateKeyPEM string

	// Passphrase opens a protected OpenSSH private key.
	Passphrase []byte

	Label string
}

// ImportKeyResult contains the stored key pair.
type ImportKeyResult struct {
	KeyPair     *rsacrypt.KeyPair
	Fingerprint string
	ChunkLimit  int
}

// ImportKey stores existing key material. A private key in PKCS#1, PKCS#8
// or OpenSSH form is normalized to PKCS#1 and its public half is derived.
// When both halves are given they must belong together.
//
// Returns ErrNoKeySpecified when neither key is given and ErrKeyMismatch
// when the halves disagree.
func ImportKey(ctx context.Context, env *Env, opts ImportKeyOptions) (result *ImportKeyResult, err error) {
	entry := history.Entry{Operation: history.OpImport}
	defer func() {
		if result != nil {
			entry.KeyID = result.KeyPair.ID
			entry.KeySizeBits = result.KeyPair.KeySizeBits
		}
		env.record(entry, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	publicPEM := strings.TrimSpace(opts.PublicKeyPEM)
	privatePEM := strings.TrimSpace(opts.PrivateKeyPEM)
	if publicPEM == "" && privatePEM == "" {
		return nil, kerrors.ErrNoKeySpecified
	}

	kp := &rsacrypt.KeyPair{
		ID:        uuid.NewString(),
		Label:     strings.TrimSpace(opts.Label),
		CreatedAt: time.Now().UTC(),
	}

	if privatePEM != "" {
		normalized, err := normalizePrivateKey(privatePEM, opts.Passphrase)
		if err != nil {
			return nil, err
		}
		derived, bits, err := rsacrypt.PublicKeyFromPrivate(normalized)
		if err != nil {
			return nil, err
		}
		if publicPEM != "" {
			if err := matchPublicKeys(publicPEM, derived); err != nil {
				return nil, err
			}
		}
		kp.PrivateKey = normalized
		kp.PublicKey = derived
		kp.KeySizeBits = bits
	} else {
		pub, err := rsacrypt.ParsePublicKey(publicPEM)
		if err != nil {
			return nil, err
		}
		encoded, err := rsacrypt.EncodePublicKey(pub)
		if err != nil {
			return nil, err
		}
		kp.PublicKey = encoded
		kp.KeySizeBits = pub.N.BitLen()
	}

	if err := env.Store.Save(*kp); err != nil {
		return nil, fmt.Errorf("saving key pair: %w", err)
	}
	env.Logger.Infof("Imported key %s", kp.ID)

	described, err := describeKey(env, kp)
	if err != nil {
		return nil, err
	}
	return &ImportKeyResult{
		KeyPair:     described.KeyPair,
		Fingerprint: described.Fingerprint,
		ChunkLimit:  described.ChunkLimit,
	}, nil
}

func matchPublicKeys(given, derived string) error {
	givenFP, err := rsacrypt.Fingerprint(given)
	if err != nil {
		return err
	}
	derivedFP, err := rsacrypt.Fingerprint(derived)
	if err != nil {
		return err
	}
	if givenFP != derivedFP {
		return kerrors.ErrKeyMismatch
	}
	return nil
}

func describeKey(env *Env, kp *rsacrypt.KeyPair) (*GenerateKeyResult, error) {
	fp, err := rsacrypt.Fingerprint(kp.PublicKey)
	if err != nil {
		return nil, err
	}
	limit, err := env.Cipher.ChunkLimit(kp.PublicKey)
	if err != nil {
		// Keys too small for the estimate can still be stored and signed with.
		env.Logger.Warnf("Key %s has no usable chunk limit: %v", kp.ID, err)
		limit = 0
	}
	return &GenerateKeyResult{KeyPair: kp, Fingerprint: fp, ChunkLimit: limit}, nil
}

// ListKeysResult contains every stored key pair, oldest first.
type ListKeysResult struct {
	KeyPairs []rsacrypt.KeyPair
}

// ListKeys returns the stored key pairs.
func ListKeys(ctx context.Context, env *Env) (*ListKeysResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kps, err := env.Store.LoadAll()
	if err != nil {
		return nil, err
	}
	return &ListKeysResult{KeyPairs: kps}, nil
}

// ShowKeyOptions selects a stored key.
type ShowKeyOptions struct {
	Ref string
}

// ShowKeyResult describes one stored key.
type ShowKeyResult struct {
	KeyPair     *rsacrypt.KeyPair
	Fingerprint string

	// ChunkLimit is what the configured sizer uses; ExactChunkLimit is
	// derived from the real modulus.
	ChunkLimit      int
	ExactChunkLimit int
}

// ShowKey looks up a key by ID, ID prefix or label.
func ShowKey(ctx context.Context, env *Env, opts ShowKeyOptions) (*ShowKeyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kp, err := findKey(env, opts.Ref)
	if err != nil {
		return nil, err
	}
	described, err := describeKey(env, kp)
	if err != nil {
		return nil, err
	}
	exact, err := rsacrypt.NewCipher(rsacrypt.WithKeySizer(rsacrypt.ModulusSizer{})).ChunkLimit(kp.PublicKey)
	if err != nil {
		exact = 0
	}
	return &ShowKeyResult{
		KeyPair:         kp,
		Fingerprint:     described.Fingerprint,
		ChunkLimit:      described.ChunkLimit,
		ExactChunkLimit: exact,
	}, nil
}

// DeleteKeyOptions selects a stored key.
type DeleteKeyOptions struct {
	Ref string
}

// DeleteKeyResult contains the removed key pair.
type DeleteKeyResult struct {
	KeyPair *rsacrypt.KeyPair
}

// DeleteKey removes a key from the store.
func DeleteKey(ctx context.Context, env *Env, opts DeleteKeyOptions) (result *DeleteKeyResult, err error) {
	entry := history.Entry{Operation: history.OpDelete}
	defer func() {
		if result != nil {
			entry.KeyID = result.KeyPair.ID
			entry.KeySizeBits = result.KeyPair.KeySizeBits
		}
		env.record(entry, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kp, err := findKey(env, opts.Ref)
	if err != nil {
		return nil, err
	}
	if err := env.Store.Delete(kp.ID); err != nil {
		return nil, err
	}
	env.Logger.Infof("Deleted key %s", kp.ID)
	return &DeleteKeyResult{KeyPair: kp}, nil
}

// ValidateKeyOptions configures key format validation.
type ValidateKeyOptions struct {
	Text string
	Kind rsacrypt.KeyKind
}

// ValidateKeyResult separates the armor check from a full parse.
type ValidateKeyResult struct {
	// FormatValid is the header/footer check alone.
	FormatValid bool

	// Parses reports whether the body is a usable RSA key.
	Parses bool

	KeySizeBits int
}

// ValidateKey checks key text without storing it. The armor check is
// syntactic; Parses tells the caller whether the key is actually usable.
func ValidateKey(ctx context.Context, opts ValidateKeyOptions) (*ValidateKeyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(opts.Text)
	result := &ValidateKeyResult{FormatValid: rsacrypt.ValidateKeyFormat(text, opts.Kind)}
	if !result.FormatValid {
		return result, nil
	}

	switch opts.Kind {
	case rsacrypt.PublicKey:
		if pub, err := rsacrypt.ParsePublicKey(text); err == nil {
			result.Parses = true
			result.KeySizeBits = pub.N.BitLen()
		}
	case rsacrypt.PrivateKey:
		if _, bits, err := rsacrypt.PublicKeyFromPrivate(text); err == nil {
			result.Parses = true
			result.KeySizeBits = bits
		}
	}
	return result, nil
}

func findKey(env *Env, ref string) (*rsacrypt.KeyPair, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, kerrors.ErrNoKeySpecified
	}
	return keystore.Find(env.Store, ref)
}
