// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS status_checks (
			id TEXT PRIMARY KEY,
			client_name TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_status_timestamp ON status_checks(timestamp)`,
		`CREATE TABLE IF NOT EXISTS search_logs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			sources TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_timestamp ON search_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveStatusCheck stores a status check.
func (s *SQLiteStore) SaveStatusCheck(ctx context.Context, check *models.StatusCheck) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO status_checks (id, client_name, timestamp)
		VALUES (?, ?, ?)`,
		check.ID, check.ClientName, check.Timestamp,
	)
	return err
}

// ListStatusChecks returns the most recent status checks.
func (s *SQLiteStore) ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_name, timestamp
		FROM status_checks ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []*models.StatusCheck
	for rows.Next() {
		var c models.StatusCheck
		if err := rows.Scan(&c.ID, &c.ClientName, &c.Timestamp); err != nil {
			return nil, err
		}
		checks = append(checks, &c)
	}
	return checks, rows.Err()
}

// LogSearch stores a search audit entry.
func (s *SQLiteStore) LogSearch(ctx context.Context, entry *models.SearchLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_logs (id, query, sources, result_count, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, strings.Join(entry.Sources, ","),
		entry.ResultCount, entry.DurationMs, entry.Timestamp,
	)
	return err
}

// RecentSearches returns the most recent search audit entries.
func (s *SQLiteStore) RecentSearches(ctx context.Context, limit int) ([]*models.SearchLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, sources, result_count, duration_ms, timestamp
		FROM search_logs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.SearchLog
	for rows.Next() {
		var e models.SearchLog
		var sources string
		if err := rows.Scan(&e.ID, &e.Query, &sources, &e.ResultCount, &e.DurationMs, &e.Timestamp); err != nil {
			return nil, err
		}
		if sources != "" {
			e.Sources = strings.Split(sources, ",")
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
