package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdxmph/todo-tui/internal/storage"
)

// DefaultMaxBytes mirrors the few-megabyte quota of browser local storage
const DefaultMaxBytes int64 = 5 << 20

// ErrQuotaExceeded is returned by Set when the write would push the
// stored data past the configured limit
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DB wraps the database connection
type DB struct {
	conn     *sql.DB
	path     string
	maxBytes int64
}

// Open creates a new database connection. maxBytes caps the total size of
// stored keys and values; 0 disables the limit.
func Open(dbPath string, maxBytes int64) (*DB, error) {
	// Check if DB exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found at %s\nRun 'todo-tui init' to create it", dbPath)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn, path: dbPath, maxBytes: maxBytes}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// OpenOrInitialize opens the database at dbPath, creating it first if needed
func OpenOrInitialize(dbPath string, maxBytes int64) (*DB, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if err := Initialize(dbPath); err != nil {
			return nil, err
		}
	}
	return Open(dbPath, maxBytes)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file location
func (db *DB) Path() string {
	return db.path
}

// Name returns the backend identifier
func (db *DB) Name() string {
	return "sqlite"
}

// Durable returns true; values live in the database file
func (db *DB) Durable() bool {
	return true
}

// Get retrieves the value stored under key
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, enforcing the size quota
func (db *DB) Set(key, value string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if db.maxBytes > 0 {
		var others int64
		err := tx.QueryRow(`
			SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)
			FROM kv
			WHERE key != ?
		`, key).Scan(&others)
		if err != nil {
			return fmt.Errorf("measuring usage: %w", err)
		}

		if others+int64(len(key))+int64(len(value)) > db.maxBytes {
			return fmt.Errorf("writing %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}

	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.Exec(query, key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return tx.Commit()
}

// Delete removes key
func (db *DB) Delete(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Keys returns every stored key ordered by name
func (db *DB) Keys() ([]string, error) {
	rows, err := db.conn.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// Entries returns size and modification time for every stored key
func (db *DB) Entries() ([]Entry, error) {
	query := `
		SELECT key, LENGTH(CAST(value AS BLOB)), updated_at
		FROM kv
		ORDER BY key
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Size, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Usage returns the bytes used and the configured limit
func (db *DB) Usage() (used, limit int64, err error) {
	err = db.conn.QueryRow(`
		SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)
		FROM kv
	`).Scan(&used)
	if err != nil {
		return 0, db.maxBytes, fmt.Errorf("measuring usage: %w", err)
	}
	return used, db.maxBytes, nil
}

// Register the sqlite backend
func init() {
	storage.Register("sqlite", func(opts storage.Options) (storage.Backend, error) {
		if opts.Path == "" {
			return nil, errors.New("sqlite backend needs a database path")
		}
		return OpenOrInitialize(opts.Path, opts.MaxBytes)
	})
}
