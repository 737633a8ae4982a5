package history

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore keeps each collection as a directory under a root path.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) path(collection, name string) string {
	return filepath.Join(s.root, collection, name)
}

func (s *FSStore) EnsureCollection(ctx context.Context, collection string) error {
	return os.MkdirAll(filepath.Join(s.root, collection), 0o755)
}

func (s *FSStore) Write(ctx context.Context, collection, name string, data []byte) error {
	return os.WriteFile(s.path(collection, name), data, 0o644)
}

func (s *FSStore) Read(ctx context.Context, collection, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(collection, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotExist
	}
	return data, err
}

func (s *FSStore) Delete(ctx context.Context, collection, name string) error {
	err := os.Remove(s.path(collection, name))
	if errors.Is(err, fs.ErrNotExist) {
		return errNotExist
	}
	return err
}

func (s *FSStore) List(ctx context.Context, collection string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotExist
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
