package secretstore

import (
	"context"
	"os"
	"strings"
)

// FileStore reads the verify token from a file on every Load.
// Rotating the token only requires rewriting the file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file backing the store.
func (f *FileStore) Path() string {
	return f.path
}

// Load returns the trimmed contents of the token file.
func (f *FileStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", &ConfigurationError{Path: f.path, Err: err}
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", &ConfigurationError{Path: f.path, Err: errEmptySecret}
	}
	return secret, nil
}
