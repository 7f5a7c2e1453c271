// Package state provides the SQLite-backed sync-state store. It records
// the content hash last synchronized per slug, which lets push skip
// unchanged pages and detect remote conflicts optimistically.
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS synced_docs (
	slug      TEXT PRIMARY KEY,
	hash      TEXT NOT NULL,
	synced_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps a sql.DB with sync-state operations.
type Store interface {
	Get(slug string) (string, error)
	Put(slug, hash string) error
	Delete(slug string) error
	All() (map[string]string, error)
	Close() error
}

// DB is the SQLite implementation of Store.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get returns the last synced hash for slug, or empty string when the
// slug has never been synced.
func (db *DB) Get(slug string) (string, error) {
	var h string
	err := db.conn.QueryRow(`SELECT hash FROM synced_docs WHERE slug = ?`, slug).Scan(&h)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("state: get %s: %w", slug, err)
	}
	return h, nil
}

// Put records hash as the last synced state for slug.
func (db *DB) Put(slug, hash string) error {
	_, err := db.conn.Exec(`
		INSERT INTO synced_docs (slug, hash, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			hash      = excluded.hash,
			synced_at = excluded.synced_at
	`, slug, hash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("state: put %s: %w", slug, err)
	}
	return nil
}

// Delete removes the recorded state for slug.
func (db *DB) Delete(slug string) error {
	if _, err := db.conn.Exec(`DELETE FROM synced_docs WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("state: delete %s: %w", slug, err)
	}
	return nil
}

// All returns every recorded slug → hash pair.
func (db *DB) All() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT slug, hash FROM synced_docs`)
	if err != nil {
		return nil, fmt.Errorf("state: all: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var slug, hash string
		if err := rows.Scan(&slug, &hash); err != nil {
			return nil, err
		}
		out[slug] = hash
	}
	return out, rows.Err()
}
