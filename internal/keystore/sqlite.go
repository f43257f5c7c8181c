package keystore

import (
	"database/sql"
	"fmt"
	"time"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps key pairs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS key_pairs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		public_key TEXT NOT NULL,
		private_key TEXT NOT NULL DEFAULT '',
		key_size INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_key_pairs_label ON key_pairs(label);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(kp rsacrypt.KeyPair) error {
	if err := validateForSave(kp); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO key_pairs (id, label, public_key, private_key, key_size, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		kp.ID, kp.Label, kp.PublicKey, kp.PrivateKey, kp.KeySizeBits, kp.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert key %s: %w", kp.ID, err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll() ([]rsacrypt.KeyPair, error) {
	rows, err := s.db.Query(
		`SELECT id, label, public_key, private_key, key_size, created_at FROM key_pairs ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var kps []rsacrypt.KeyPair
	for rows.Next() {
		var (
			kp        rsacrypt.KeyPair
			createdAt int64
		)
		if err := rows.Scan(&kp.ID, &kp.Label, &kp.PublicKey, &kp.PrivateKey, &kp.KeySizeBits, &createdAt); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		kp.CreatedAt = time.Unix(0, createdAt).UTC()
		kps = append(kps, kp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return kps, nil
}

func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM key_pairs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete key %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete key %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", kerrors.ErrKeyNotFound, id)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
