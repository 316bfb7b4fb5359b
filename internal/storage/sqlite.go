// Package storage provides the SQLite implementation of EmbeddingCache.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache implements EmbeddingCache using SQLite. Vectors are stored as
// little-endian float32 blobs keyed by (model, sha256(text)).
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		model TEXT NOT NULL,
		text_hash TEXT NOT NULL,
		dims INTEGER NOT NULL,
		vector BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (model, text_hash)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get returns the cached vector for (model, text), with ok false on a miss.
func (s *SQLiteCache) Get(model, text string) ([]float32, bool, error) {
	var dims int
	var blob []byte
	err := s.db.QueryRow(
		`SELECT dims, vector FROM embeddings WHERE model = ? AND text_hash = ?`,
		model, textHash(text),
	).Scan(&dims, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached embedding: %w", err)
	}

	vec, err := bytesToFloat32Slice(blob)
	if err != nil {
		return nil, false, err
	}
	if len(vec) != dims {
		return nil, false, fmt.Errorf("cached embedding corrupt: %d values, expected %d", len(vec), dims)
	}
	return vec, true, nil
}

// Put stores the vector for (model, text), replacing any previous value.
func (s *SQLiteCache) Put(model, text string, vector []float32) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO embeddings (model, text_hash, dims, vector) VALUES (?, ?, ?, ?)`,
		model, textHash(text), len(vector), float32SliceToBytes(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to write cached embedding: %w", err)
	}
	return nil
}

// Count returns the number of cached embeddings.
func (s *SQLiteCache) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached embeddings: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func float32SliceToBytes(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func bytesToFloat32Slice(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}
