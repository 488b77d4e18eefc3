package session

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"

	"pro_market/internal/core"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS credential (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL,
	checksum BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// persistedCredential is the stored shape; the role travels as its string tag
type persistedCredential struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// SQLiteStore persists the credential pair in a single-row sqlite table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the credential database
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping credential database: %w", err)
	}

	// WAL mode so a crash mid-write cannot corrupt the stored session
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create credential schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save writes the credential pair in one transaction
func (s *SQLiteStore) Save(ctx context.Context, cred core.Credential) error {
	data, err := json.Marshal(persistedCredential{
		Token: cred.Token,
		Role:  cred.Role.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	checksum := sha256.Sum256(data)
	query := `INSERT OR REPLACE INTO credential (id, data, checksum, updated_at) VALUES (1, ?, ?, strftime('%s','now'))`
	if _, err := s.db.ExecContext(ctx, query, string(data), checksum[:]); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}
	return nil
}

// Load reads the stored credential, if any. A corrupt row is treated as
// absent after verification fails; the user simply logs in again.
func (s *SQLiteStore) Load(ctx context.Context) (core.Credential, bool, error) {
	var data string
	var storedChecksum []byte
	err := s.db.QueryRowContext(ctx, `SELECT data, checksum FROM credential WHERE id = 1`).Scan(&data, &storedChecksum)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Credential{}, false, nil
		}
		return core.Credential{}, false, fmt.Errorf("failed to read credential: %w", err)
	}

	computed := sha256.Sum256([]byte(data))
	if len(storedChecksum) != len(computed) {
		return core.Credential{}, false, nil
	}
	for i := range computed {
		if storedChecksum[i] != computed[i] {
			return core.Credential{}, false, nil
		}
	}

	var stored persistedCredential
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return core.Credential{}, false, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return core.Credential{
		Token: stored.Token,
		Role:  core.ParseRole(stored.Role),
	}, stored.Token != "", nil
}

// Delete removes the stored credential
func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credential WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// Close closes the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
