package storage

import (
	"context"
	"io"
)

// BlobStore keeps inspection photos and menu images.
type BlobStore interface {
	// Put stores r under key and returns the public URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}
