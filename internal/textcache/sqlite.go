package textcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS page_text (
	hash     TEXT NOT NULL,
	page     INTEGER NOT NULL,
	text     TEXT NOT NULL,
	source   TEXT NOT NULL,
	variants TEXT NOT NULL,
	PRIMARY KEY (hash, page)
)`

// SQLite persists page text across runs
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens or creates the cache database at path
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite cache requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Get returns the cached entry for key
func (s *SQLite) Get(ctx context.Context, key Key) (Entry, bool, error) {
	var (
		entry    Entry
		variants string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT text, source, variants FROM page_text WHERE hash = ? AND page = ?`,
		key.Hash, key.Page,
	).Scan(&entry.Text, &entry.Source, &variants)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cached page %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(variants), &entry.Variants); err != nil {
		return Entry{}, false, fmt.Errorf("failed to decode cached variants for %s: %w", key, err)
	}
	return entry, true, nil
}

// Put stores or replaces the entry for key
func (s *SQLite) Put(ctx context.Context, key Key, entry Entry) error {
	variants, err := json.Marshal(entry.Variants)
	if err != nil {
		return fmt.Errorf("failed to encode variants for %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO page_text (hash, page, text, source, variants) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(hash, page) DO UPDATE SET text = excluded.text, source = excluded.source, variants = excluded.variants`,
		key.Hash, key.Page, entry.Text, entry.Source, string(variants),
	)
	if err != nil {
		return fmt.Errorf("failed to cache page %s: %w", key, err)
	}
	return nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
