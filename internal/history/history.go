package history

import (
	"fmt"
	"sync"
	"time"
)

// MaxEntries bounds the history ring.
const MaxEntries = 10

// TimestampFormat is RFC3339 with microseconds, always UTC.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Operation names.
const (
	OpGenerate    = "generate"
	OpImport      = "import"
	OpDelete      = "delete"
	OpEncrypt     = "encrypt"
	OpDecrypt     = "decrypt"
	OpEncryptFile = "encrypt-file"
	OpDecryptFile = "decrypt-file"
	OpSign        = "sign"
	OpVerify      = "verify"
)

// Entry represents a single recorded operation.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"`
	Success   bool   `json:"success"`

	// Optional fields depending on operation.
	KeyID       string `json:"key_id,omitempty"`
	KeySizeBits int    `json:"key_size,omitempty"`
	Chunks      int    `json:"chunks,omitempty"` // For encrypt/decrypt.
	Bytes       int    `json:"bytes,omitempty"`  // Plaintext length.
	File        string `json:"file,omitempty"`   // For file operations.
	Error       string `json:"error,omitempty"`
}

// Backend persists the whole ring, newest entry first.
type Backend interface {
	Save(entries []Entry) error
	LoadAll() ([]Entry, error)
}

// Recorder maintains the ring on top of a Backend.
type Recorder struct {
	backend Backend
	now     func() time.Time
	mu      sync.Mutex
}

// NewRecorder returns a recorder persisting through backend.
func NewRecorder(backend Backend) *Recorder {
	return &Recorder{backend: backend, now: time.Now}
}

// Record prepends entry, evicting the oldest entries past MaxEntries.
// A returned error means the entry was not persisted; callers should log
// it and carry on, since an operation never fails because history did.
func (r *Recorder) Record(entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = r.now().UTC().Format(TimestampFormat)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.backend.LoadAll()
	if err != nil {
		// Saving now would overwrite the stored ring.
		return fmt.Errorf("loading history: %w", err)
	}

	entries = append([]Entry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	return r.backend.Save(entries)
}

// Entries returns the ring, newest first.
func (r *Recorder) Entries() ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.backend.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries, nil
}

// Stats counts entries per operation.
func Stats(entries []Entry) map[string]int {
	stats := make(map[string]int)
	for _, e := range entries {
		stats[e.Operation]++
	}
	return stats
}

// MemoryBackend keeps the ring in memory.
type MemoryBackend struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *MemoryBackend) Save(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry(nil), entries...)
	return nil
}

func (m *MemoryBackend) LoadAll() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...), nil
}
