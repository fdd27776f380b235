package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrNotDataURL = errors.New("not a base64 data URL")

// DecodeDataURL splits "data:<mime>;base64,<payload>" into its MIME type and
// decoded bytes.
func DecodeDataURL(s string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mimeType, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, ErrNotDataURL
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return mimeType, data, nil
}

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}
