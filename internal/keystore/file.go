package keystore

import (
	"fmt"
	"os"
	"sync"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
)

// FileStore keeps key pairs in a single TOML document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type keyFile struct {
	KeyPairs []rsacrypt.KeyPair `toml:"keypair"`
}

// NewFileStore returns a store backed by the TOML file at path. The file is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (*keyFile, error) {
	doc := &keyFile{}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return doc, nil
	}
	if err := configs.LoadTOML(s.path, doc); err != nil {
		return nil, fmt.Errorf("failed to load key store: %w", err)
	}
	return doc, nil
}

func (s *FileStore) Save(kp rsacrypt.KeyPair) error {
	if err := validateForSave(kp); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range doc.KeyPairs {
		if existing.ID == kp.ID {
			return fmt.Errorf("key %s already exists", kp.ID)
		}
	}
	doc.KeyPairs = append(doc.KeyPairs, kp)

	if err := configs.SaveTOML(s.path, doc); err != nil {
		return fmt.Errorf("failed to save key store: %w", err)
	}
	return nil
}

func (s *FileStore) LoadAll() ([]rsacrypt.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	sortByCreation(doc.KeyPairs)
	return doc.KeyPairs, nil
}

func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	kept := doc.KeyPairs[:0]
	found := false
	for _, kp := range doc.KeyPairs {
		if kp.ID == id {
			found = true
			continue
		}
		kept = append(kept, kp)
	}
	if !found {
		return fmt.Errorf("%w: %q", kerrors.ErrKeyNotFound, id)
	}
	doc.KeyPairs = kept

	if err := configs.SaveTOML(s.path, doc); err != nil {
		return fmt.Errorf("failed to save key store: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
