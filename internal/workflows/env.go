package workflows

import (
	"fmt"
	"strings"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	"github.com/MohiZzine/rsa-encryption-app/internal/keystore"
	logger "github.com/MohiZzine/rsa-encryption-app/internal/logging"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
)

// Env carries the collaborators every workflow needs.
type Env struct {
	Config  *configs.Config
	Store   keystore.Store
	History *history.Recorder
	Cipher  *rsacrypt.Cipher
	Logger  logger.Logger
}

// NewEnv assembles an Env from explicit parts. A nil config means the
// defaults; a nil history backend keeps history in memory.
func NewEnv(cfg *configs.Config, store keystore.Store, backend history.Backend, log logger.Logger) (*Env, error) {
	if cfg == nil {
		cfg = configs.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: no key store", kerrors.ErrInvalidConfig)
	}

	sizer, err := rsacrypt.NewKeySizer(cfg.Envelope.KeySizer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	if backend == nil {
		backend = &history.MemoryBackend{}
	}

	return &Env{
		Config:  cfg,
		Store:   store,
		History: history.NewRecorder(backend),
		Cipher:  rsacrypt.NewCipher(rsacrypt.WithKeySizer(sizer)),
		Logger:  log,
	}, nil
}

// OpenEnv loads the user's config and opens the configured key store and
// history file.
func OpenEnv(log logger.Logger) (*Env, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}

	settings := configs.UserRsakitSettings
	log.Debugf("Opening %s key store in %s", cfg.Keys.Store, settings.DataPath)
	store, err := keystore.Open(cfg.Keys.Store, settings.DataPath)
	if err != nil {
		return nil, err
	}

	var backend history.Backend
	if !cfg.History.Disabled {
		backend = history.NewFileBackend(settings.HistoryFilePath())
	}

	env, err := NewEnv(cfg, store, backend, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	return env, nil
}

// Close releases the key store.
func (e *Env) Close() error {
	return e.Store.Close()
}

// record appends to the history. A failure is logged and swallowed.
func (e *Env) record(entry history.Entry, opErr error) {
	entry.Success = opErr == nil
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	if err := e.History.Record(entry); err != nil {
		e.Logger.Warnf("Failed to record %s in history: %v", entry.Operation, err)
	}
}

// formatEnvelope renders env in the configured wire format.
func (e *Env) formatEnvelope(env rsacrypt.Envelope) (string, error) {
	if e.Config.Envelope.Format == configs.EnvelopeLegacy {
		return env.Legacy()
	}
	text, err := env.MarshalText()
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// resolvedKey is key material picked from the store or supplied inline.
type resolvedKey struct {
	PEM         string
	KeyID       string
	KeySizeBits int
}

// publicKey resolves ref against the store, or validates pemText.
func (e *Env) publicKey(ref, pemText string) (*resolvedKey, error) {
	if ref != "" {
		kp, err := keystore.Find(e.Store, ref)
		if err != nil {
			return nil, err
		}
		return &resolvedKey{PEM: kp.PublicKey, KeyID: kp.ID, KeySizeBits: kp.KeySizeBits}, nil
	}

	pemText = strings.TrimSpace(pemText)
	if pemText == "" {
		return nil, kerrors.ErrNoKeySpecified
	}
	if !rsacrypt.ValidateKeyFormat(pemText, rsacrypt.PublicKey) {
		return nil, fmt.Errorf("%w: missing PUBLIC KEY armor", kerrors.ErrInvalidPublicKey)
	}
	bits, _ := rsacrypt.ModulusSizer{}.KeySizeBits(pemText)
	return &resolvedKey{PEM: pemText, KeySizeBits: bits}, nil
}

// privateKey resolves ref against the store, or normalizes pemText to
// PKCS#1 PEM. Protected OpenSSH keys are opened with passphrase.
func (e *Env) privateKey(ref, pemText string, passphrase []byte) (*resolvedKey, error) {
	if ref != "" {
		kp, err := keystore.Find(e.Store, ref)
		if err != nil {
			return nil, err
		}
		if !kp.HasPrivateKey() {
			return nil, fmt.Errorf("%w: key %s has no private half", kerrors.ErrInvalidPrivateKey, kp.ID)
		}
		return &resolvedKey{PEM: kp.PrivateKey, KeyID: kp.ID, KeySizeBits: kp.KeySizeBits}, nil
	}

	pemText = strings.TrimSpace(pemText)
	if pemText == "" {
		return nil, kerrors.ErrNoKeySpecified
	}
	normalized, err := normalizePrivateKey(pemText, passphrase)
	if err != nil {
		return nil, err
	}
	_, bits, err := rsacrypt.PublicKeyFromPrivate(normalized)
	if err != nil {
		return nil, err
	}
	return &resolvedKey{PEM: normalized, KeySizeBits: bits}, nil
}

// normalizePrivateKey converts any accepted private key encoding to
// PKCS#1 PEM.
func normalizePrivateKey(pemText string, passphrase []byte) (string, error) {
	if rsacrypt.IsPassphraseProtected([]byte(pemText)) {
		if len(passphrase) == 0 {
			return "", fmt.Errorf("%w: key is passphrase protected", kerrors.ErrInvalidPrivateKey)
		}
		priv, err := rsacrypt.ParseOpenSSHPrivateKey([]byte(pemText), passphrase)
		if err != nil {
			return "", err
		}
		return rsacrypt.EncodePrivateKey(priv), nil
	}

	priv, err := rsacrypt.ParsePrivateKey(pemText)
	if err != nil {
		return "", err
	}
	return rsacrypt.EncodePrivateKey(priv), nil
}
