package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local is a disk on the local filesystem. Files live below Root and are
// served by the web server under Prefix.
type Local struct {
	Root   string
	Prefix string
}

// NewLocal creates the root directory when missing and returns the disk.
func NewLocal(root, prefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}

	return &Local{Root: root, Prefix: strings.TrimRight(prefix, "/")}, nil
}

func (l *Local) path(key string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(l.Root, filepath.FromSlash(k)), nil
}

// Put implements Disk. The file is written to a temporary name first and
// renamed into place so readers never see a partial image.
func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write %s: %w", key, err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close %s: %w", key, err)
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // public assets
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("chmod %s: %w", key, err)
	}

	if err = os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("move %s into place: %w", key, err)
	}

	return nil
}

// Delete implements Disk.
func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Exists implements Disk.
func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	p, err := l.path(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(p)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
}

// URL implements Disk.
func (l *Local) URL(key string) string {
	return l.Prefix + "/" + strings.TrimLeft(key, "/")
}
