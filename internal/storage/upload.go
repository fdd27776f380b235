package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported content type")

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

// PutImageRef stores a photo reference. Data URLs are uploaded under prefix
// and replaced by their public URL; anything else is already hosted and is
// returned unchanged.
func PutImageRef(ctx context.Context, store BlobStore, prefix, ref string) (string, error) {
	if !IsDataURL(ref) {
		return ref, nil
	}

	mimeType, data, err := DecodeDataURL(ref)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w %q", ErrUnsupportedType, mimeType)
	}

	ext, ok := extByMIME[mimeType]
	if !ok {
		ext = ".bin"
	}

	key := fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.New().String(), ext)

	return store.Put(ctx, key, bytes.NewReader(data), mimeType)
}
