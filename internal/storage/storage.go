// Package storage provides the disks uploaded images are written to.
//
// A disk works with keys such as "gallery/3f2c....jpg". The key is what the
// database stores; the public URL is always derived from it by the disk that
// owns the file.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrInvalidKey is returned for empty, absolute or escaping keys.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Disk stores and removes files addressed by key.
type Disk interface {
	// Put writes r under key, replacing any existing file.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is stored.
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the public URL of key.
	URL(key string) string
}

// CleanKey normalizes key and rejects keys that would leave the disk root.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}

	return cleaned, nil
}
