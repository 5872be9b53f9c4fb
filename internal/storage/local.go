// Package storage provides the file storage backend for presentation
// uploads. The local implementation keeps files on disk under a
// configured root and serves them through the public files route.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a root directory.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates a local storage backend rooted at dir. Public URLs
// are built by joining baseURL with the storage path.
func NewLocal(dir, baseURL string) *Local {
	return &Local{root: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes data at the given storage path, creating parent
// directories as needed.
func (l *Local) Upload(path string, data []byte) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Remove deletes the given storage paths. Missing files are not an
// error, so removal is idempotent.
func (l *Local) Remove(paths []string) error {
	for _, path := range paths {
		full, err := l.resolve(path)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file: %w", err)
		}
	}
	return nil
}

// GetPublicURL returns the URL the file is served under.
func (l *Local) GetPublicURL(path string) string {
	return l.baseURL + "/" + path
}

// resolve maps a storage path onto the root, rejecting traversal out of
// it.
func (l *Local) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid storage path: %s", path)
	}
	return filepath.Join(l.root, clean), nil
}
