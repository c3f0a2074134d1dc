package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/utils"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps each browser's local storage: one row per
// (client, key), last write wins.
type SQLiteStore struct {
	db *sql.DB
}

var (
	ErrEmptyClient = errors.New("client id is required")
	ErrEmptyKey    = errors.New("storage key is required")
)

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite serialises writers anyway, and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS local_storage (
		client_id TEXT NOT NULL CHECK(client_id <> ''),
		key TEXT NOT NULL CHECK(key <> ''),
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (client_id, key)
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SetItem stores value under key for client, replacing any previous value.
func (s *SQLiteStore) SetItem(clientID, key, value string) error {
	if clientID == "" {
		return ErrEmptyClient
	}
	if key == "" {
		return ErrEmptyKey
	}

	_, err := s.db.Exec(`
		INSERT INTO local_storage (client_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(client_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		clientID, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	logging.DebugLog("store.SetItem [%s] key=%s", utils.ShortID(clientID), key)
	return nil
}

// GetItem returns the value under key for client and whether it exists.
func (s *SQLiteStore) GetItem(clientID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value
		FROM local_storage
		WHERE client_id = ? AND key = ?`, clientID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		logging.ErrorLog("store.GetItem error: %v", err)
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Scope returns the storage one browser sees.
func (s *SQLiteStore) Scope(clientID string) *Scoped {
	return &Scoped{store: s, clientID: clientID}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Scoped is a SQLiteStore bound to a single client.
type Scoped struct {
	store    *SQLiteStore
	clientID string
}

func (s *Scoped) GetItem(key string) (string, bool, error) {
	return s.store.GetItem(s.clientID, key)
}

func (s *Scoped) SetItem(key, value string) error {
	return s.store.SetItem(s.clientID, key, value)
}
