package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs below a directory on the local filesystem. The
// reference it returns is the slash-separated name relative to that
// directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	ref, path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("save %s: %w", ref, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", ref, err)
	}
	return ref, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	_, path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return f, nil
}

// resolve cleans name and maps it inside the storage directory.
func (s *LocalStore) resolve(name string) (string, string, error) {
	ref := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+name)), "/")
	if ref == "" || ref == "." {
		return "", "", errors.New("empty blob name")
	}
	return ref, filepath.Join(s.dir, filepath.FromSlash(ref)), nil
}
