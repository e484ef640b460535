package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists each key as a file under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the per-user storage directory (~/.imagequeue).
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".imagequeue"), nil
}

// Save implements Store.Save. Values may contain the API credential, so
// files are only readable by the owner.
func (fs *FileStore) Save(key, value string) error {
	if err := os.WriteFile(fs.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Load implements Store.Load.
func (fs *FileStore) Load(key string) (string, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key)
}
