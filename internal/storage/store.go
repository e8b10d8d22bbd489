// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by ReadFile when the path does not exist.
var ErrNotFound = errors.New("file not found")

// File is a named blob to be written to the store.
type File struct {
	Path    string
	Content []byte
}

// Store defines the interface for the record store.
// The store is a flat set of named files, the way a git repository is used as
// a database: the trip list and its derived reports live side by side.
type Store interface {
	// ReadFile returns the content of the file at path.
	// Returns ErrNotFound if the file does not exist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFiles replaces all the given files in a single atomic update and
	// returns an identifier of the resulting revision.
	// Either every file is written or none is.
	WriteFiles(ctx context.Context, message string, files []File) (string, error)

	// Close releases any resources held by the store.
	Close() error
}
