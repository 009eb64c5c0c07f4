package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Store persists uploaded document bytes. Paths are namespaced by the
// worker's health ID with a timestamp-prefixed filename, so collisions are
// avoided by construction.
type Store interface {
	Save(healthID, fileName string, data []byte) (string, error)
	Load(filePath string) ([]byte, error)
	Delete(filePath string) error
}

type fileStore struct {
	fs afero.Fs
}

// NewFileStore returns a Store rooted at the given directory.
func NewFileStore(root string) (Store, error) {
	base := afero.NewOsFs()
	if err := base.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &fileStore{fs: afero.NewBasePathFs(base, root)}, nil
}

// NewMemStore returns an in-memory Store for tests.
func NewMemStore() Store {
	return &fileStore{fs: afero.NewMemMapFs()}
}

func (s *fileStore) Save(healthID, fileName string, data []byte) (string, error) {
	key := ObjectKey(healthID, fileName, time.Now())
	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return key, nil
}

func (s *fileStore) Load(filePath string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *fileStore) Delete(filePath string) error {
	if err := s.fs.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ObjectKey builds the storage path {healthID}/{unixMillis}_{fileName}. The
// original filename is sanitized of path separators.
func ObjectKey(healthID, fileName string, now time.Time) string {
	clean := strings.ReplaceAll(fileName, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	return fmt.Sprintf("%s/%d_%s", healthID, now.UnixMilli(), clean)
}
