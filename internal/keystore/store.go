package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
)

// Store persists generated key pairs.
type Store interface {
	Save(kp rsacrypt.KeyPair) error
	LoadAll() ([]rsacrypt.KeyPair, error)
	Delete(id string) error
	Close() error
}

// minPrefixLen is the shortest ID prefix Find resolves.
const minPrefixLen = 4

// Open returns the backend named by backend, rooted in dir.
func Open(backend, dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create key store directory at %s: %w", dir, err)
	}

	switch backend {
	case "", configs.StoreTOML:
		return NewFileStore(filepath.Join(dir, "keys.toml")), nil
	case configs.StoreSQLite:
		return NewSQLiteStore(filepath.Join(dir, "keys.db"))
	default:
		return nil, fmt.Errorf("%w: unknown key store %q", kerrors.ErrInvalidConfig, backend)
	}
}

// Find resolves ref to a stored key pair. ref may be a full ID, a label, or
// a unique ID prefix of at least four characters.
func Find(s Store, ref string) (*rsacrypt.KeyPair, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty key reference", kerrors.ErrKeyNotFound)
	}

	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID == ref {
			return &all[i], nil
		}
	}

	var matches []int
	for i := range all {
		if all[i].Label != "" && all[i].Label == ref {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 && len(ref) >= minPrefixLen {
		for i := range all {
			if strings.HasPrefix(all[i].ID, ref) {
				matches = append(matches, i)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrKeyNotFound, ref)
	case 1:
		return &all[matches[0]], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d keys", kerrors.ErrAmbiguousKey, ref, len(matches))
	}
}

// sortByCreation orders key pairs oldest first, breaking ties by ID.
func sortByCreation(kps []rsacrypt.KeyPair) {
	sort.SliceStable(kps, func(i, j int) bool {
		if kps[i].CreatedAt.Equal(kps[j].CreatedAt) {
			return kps[i].ID < kps[j].ID
		}
		return kps[i].CreatedAt.Before(kps[j].CreatedAt)
	})
}

func validateForSave(kp rsacrypt.KeyPair) error {
	if kp.ID == "" {
		return fmt.Errorf("key pair has no ID")
	}
	if !rsacrypt.ValidateKeyFormat(strings.TrimSpace(kp.PublicKey), rsacrypt.PublicKey) {
		return fmt.Errorf("%w: key %s", kerrors.ErrInvalidPublicKey, kp.ID)
	}
	return nil
}
