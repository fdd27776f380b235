package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore writes blobs under a local directory. Used in development when no
// bucket is configured; the router serves the directory at publicBase.
type FSStore struct {
	base       string
	publicBase string
}

func NewFSStore(base, publicBase string) (*FSStore, error) {
	if base == "" {
		base = "./data/uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (s *FSStore) Dir() string { return s.base }

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean("/" + key)[1:]
	dst := filepath.Join(s.base, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return path.Join(s.publicBase, filepath.ToSlash(clean)), nil
}
