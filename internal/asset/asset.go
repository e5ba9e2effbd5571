// Package asset implements the lifecycle shared by every record that owns an
// uploaded image: validate the upload, store it on a disk, swap it on update
// and remove it with the record.
//
// A reference (ref) is the value kept in the database. Storage keys such as
// "hero/0b5f....jpg" are owned by the site and deleted when replaced.
// External URLs and bundled /static/ assets are only pointed at.
package asset

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/storage"
)

// Bucket is the key prefix of one content family.
type Bucket string

// Buckets of the site.
const (
	BucketHero     Bucket = "hero"
	BucketGallery  Bucket = "gallery"
	BucketServices Bucket = "services"
	BucketTeam     Bucket = "team"
	BucketNews     Bucket = "news"
	BucketSettings Bucket = "settings"
)

var operations = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "clmk_asset_operations_total",
		Help: "Number of stored and removed images, by bucket.",
	},
	[]string{"op", "bucket"},
)

// Owned reports whether ref is a storage key the site must delete when the
// record lets go of it.
func Owned(ref string) bool {
	switch {
	case ref == "":
		return false
	case strings.Contains(ref, "://"), strings.HasPrefix(ref, "//"):
		return false
	case strings.HasPrefix(ref, "/"):
		return false // bundled asset such as /static/img/default-logo.svg
	case strings.HasPrefix(ref, "data:"):
		return false
	default:
		return true
	}
}

// Holds reports whether ref is a storage key written under b.
func (b Bucket) Holds(ref string) bool {
	return Owned(ref) && strings.HasPrefix(ref, string(b)+"/")
}

func bucketOf(ref string) string {
	if i := strings.IndexByte(ref, '/'); i > 0 {
		return ref[:i]
	}

	return "unknown"
}

// Manager stores uploads on a disk and resolves references to URLs.
type Manager struct {
	disk     storage.Disk
	maxWidth int
}

// NewManager returns a manager over disk. Raster images wider than maxWidth
// are downscaled before storing; 0 keeps originals.
func NewManager(disk storage.Disk, maxWidth int) *Manager {
	return &Manager{disk: disk, maxWidth: maxWidth}
}

// Disk returns the underlying disk.
func (m *Manager) Disk() storage.Disk {
	return m.disk
}

// URL returns the public URL of ref. Unowned refs are already URLs.
func (m *Manager) URL(ref string) string {
	if !Owned(ref) {
		return ref
	}

	return m.disk.URL(ref)
}

// Resolve fills ImageURL on every record.
func (m *Manager) Resolve(records ...models.Pictured) {
	for _, r := range records {
		p := r.Pic()
		p.ImageURL = m.URL(p.Image)
	}
}

// Store writes up under a fresh key in bucket and returns the key.
func (m *Manager) Store(ctx context.Context, bucket Bucket, up *Upload) (string, error) {
	up, err := downscale(up, m.maxWidth)
	if err != nil {
		return "", err
	}

	key := string(bucket) + "/" + uuid.NewString() + up.Ext

	if err = m.disk.Put(ctx, key, up.Reader(), up.Size(), up.MIME); err != nil {
		return "", fmt.Errorf("store %s image: %w", bucket, err)
	}

	operations.WithLabelValues("store", string(bucket)).Inc()
	log.Debug().Str("key", key).Int64("bytes", up.Size()).Msg("image stored")

	return key, nil
}

// Remove deletes ref when it is owned. Unowned refs are left alone.
func (m *Manager) Remove(ctx context.Context, ref string) error {
	if !Owned(ref) {
		return nil
	}

	if err := m.disk.Delete(ctx, ref); err != nil {
		return fmt.Errorf("remove image %s: %w", ref, err)
	}

	operations.WithLabelValues("remove", bucketOf(ref)).Inc()
	log.Debug().Str("key", ref).Msg("image removed")

	return nil
}

// Swap runs the create/update half of the lifecycle. Without an upload,
// persist receives the current ref unchanged. With one, the new file is
// stored first and persist receives its key; when persist fails the new file
// is removed and the record keeps pointing at current. When persist succeeds
// the previous owned file is removed.
// The returned ref is the one the record now holds.
func (m *Manager) Swap(
	ctx context.Context, bucket Bucket, current string, up *Upload, persist func(ref string) error,
) (string, error) {
	if up == nil {
		return current, persist(current)
	}

	key, err := m.Store(ctx, bucket, up)
	if err != nil {
		return current, err
	}

	if err = persist(key); err != nil {
		if errRm := m.Remove(ctx, key); errRm != nil {
			log.Error().Err(errRm).Str("key", key).Msg("failed to roll back stored image")
		}

		return current, err
	}

	if current != key {
		if errRm := m.Remove(ctx, current); errRm != nil {
			// the record already points at the new file, a stale file is only wasted space.
			log.Warn().Err(errRm).Str("key", current).Msg("failed to remove replaced image")
		}
	}

	return key, nil
}

// Discard runs the delete half of the lifecycle: remove deletes the record,
// then the owned file is removed.
func (m *Manager) Discard(ctx context.Context, ref string, remove func() error) error {
	if err := remove(); err != nil {
		return err
	}

	if err := m.Remove(ctx, ref); err != nil {
		log.Warn().Err(err).Str("key", ref).Msg("record deleted but its image could not be removed")
	}

	return nil
}
