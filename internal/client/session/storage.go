package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage persists at most one raw session token between runs, filling the
// role browser local storage plays for the web client. An empty string from
// Load means no session.
type Storage interface {
	Load() (string, error)
	Save(raw string) error
	Clear() error
}

// FileStorage keeps the token in a single 0600 file.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage writing to path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultTokenPath returns the conventional token location under the user
// config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("token path: %w", err)
	}
	return filepath.Join(dir, "fintrack", "token"), nil
}

func (s *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStorage) Save(raw string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(raw), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *FileStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
