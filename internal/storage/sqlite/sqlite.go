// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
// It mirrors the GitHub store locally: every write is one commit touching one or
// more files.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/iosugomez/kotxea/internal/metrics"
	"github.com/iosugomez/kotxea/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const backend = "sqlite"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReadFile retrieves the latest content of a file.
func (s *SQLiteStore) ReadFile(ctx context.Context, path string) (content []byte, err error) {
	defer metrics.ObserveStoreOperation(backend, "read", time.Now(), &err)

	err = s.db.QueryRowContext(ctx,
		"SELECT content FROM files WHERE path = ?",
		path,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return content, nil
}

// WriteFiles records a commit and upserts every file in one transaction.
func (s *SQLiteStore) WriteFiles(ctx context.Context, message string, files []storage.File) (revision string, err error) {
	defer metrics.ObserveStoreOperation(backend, "write", time.Now(), &err)

	if len(files) == 0 {
		return "", errors.New("no files to write")
	}

	commitID := uuid.New().String()
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO commits (id, message, created_at) VALUES (?, ?, ?)",
		commitID, message, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert commit: %w", err)
	}

	for _, f := range files {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO files (path, content, commit_id, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(path) DO UPDATE SET content = excluded.content,
			     commit_id = excluded.commit_id, updated_at = excluded.updated_at`,
			f.Path, f.Content, commitID, now,
		)
		if err != nil {
			return "", fmt.Errorf("failed to write file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return commitID, nil
}

// CommitMessages returns the messages of all commits, newest first.
func (s *SQLiteStore) CommitMessages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT message FROM commits ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var message string
		if err := rows.Scan(&message); err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return messages, nil
}
