package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each key as a file inside a root directory.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", root, err)
	}

	return &FileStore{root: root}, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	body, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}

		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	return body, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := os.WriteFile(s.keyPath(key), value, 0600); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	return nil
}

func (s *FileStore) Close(_ context.Context) error {
	return nil
}

func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.root, key+".json")
}
