package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON file per key in a directory.
// Writes go to a temp file that is renamed over the old value.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if !safeKey.MatchString(key) {
		return "", fmt.Errorf("%w: invalid record key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrKeyNotFound
	}
	return b, err
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *FileStore) Ping(context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStore) Close() error { return nil }

var _ ports.KeyValueStore = (*FileStore)(nil)
