// Package settings serves the site wide key/value settings to the layouts
// and the homepage, and applies the back office form to the store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/cache"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/setting"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

// Cache entries holding the resolved settings map.
const (
	CacheKeyShared   = "shared_settings"
	CacheKeyHomepage = "homepage_settings"
)

// KeyLogo is the setting holding the site logo reference.
const KeyLogo = "site_logo"

// Field errors of Update.
const (
	MsgInvalidKey = "Keys use lower case letters, digits and underscores and start with a letter."
	MsgInvalidRef = "Upload a file, or give an http(s) URL or a /static/ path."
)

var (
	keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,99}$`)

	// reserved form fields never stored as settings.
	reserved = map[string]struct{}{"_csrf": {}, "_method": {}, "_token": {}} //nolint:gochecknoglobals
)

// ValidKey reports whether key may be stored.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Reserved reports whether key is a form control field rather than a setting.
func Reserved(key string) bool {
	_, ok := reserved[key]
	return ok
}

// View is one setting as shown in the back office.
type View struct {
	Key     string
	Value   string
	IsAsset bool
	URL     string // resolved image URL of asset settings
}

// Service reads and writes settings.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	assets *asset.Manager
	ttl    time.Duration

	// mu orders cache fills against Invalidate. A fill stores its map only
	// when no invalidation ran since it read the store.
	mu         sync.Mutex
	generation uint64
}

// New returns a settings service. Cached maps expire after ttl.
func New(db *gorm.DB, c cache.Cache, assets *asset.Manager, ttl time.Duration) *Service {
	return &Service{db: db, cache: c, assets: assets, ttl: ttl}
}

// All returns the settings map shared by every rendered page.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	return s.cached(ctx, CacheKeyShared)
}

// Homepage returns the settings map embedded in the homepage payload.
func (s *Service) Homepage(ctx context.Context) (map[string]string, error) {
	return s.cached(ctx, CacheKeyHomepage)
}

func (s *Service) cached(ctx context.Context, key string) (map[string]string, error) {
	var m map[string]string

	found, err := s.cache.Get(ctx, key, &m)
	if err != nil {
		// a broken cache must not take the site down
		log.Warn().Err(err).Str("key", key).Msg("settings cache read failed")
	}

	if found {
		return m, nil
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	if m, err = s.load(); err != nil {
		return nil, err
	}

	s.fill(ctx, key, gen, m)

	return m, nil
}

func (s *Service) fill(ctx context.Context, key string, gen uint64, m map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}

	if err := s.cache.Set(ctx, key, m, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache write failed")
	}
}

// load reads the store and resolves asset values to URLs.
func (s *Service) load() (map[string]string, error) {
	all, err := setting.GetAll(s.db)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	m := make(map[string]string, len(all))
	for _, st := range all {
		if st.IsAsset {
			m[st.Key] = s.assets.URL(st.Value)
			continue
		}

		m[st.Key] = st.Value
	}

	return m, nil
}

// Views returns every stored setting for the back office form, uncached.
func (s *Service) Views() ([]View, error) {
	all, err := setting.GetAll(s.db)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	views := make([]View, 0, len(all))
	for _, st := range all {
		v := View{Key: st.Key, Value: st.Value, IsAsset: st.IsAsset}
		if st.IsAsset {
			v.URL = s.assets.URL(st.Value)
		}

		views = append(views, v)
	}

	return views, nil
}

// Update applies one form submission. values holds the literal fields,
// files the validated uploads keyed by field name. Keys and the text values
// of asset keys are checked first: on any field error nothing changes.
// Both cached maps are dropped before Update returns.
func (s *Service) Update(
	ctx context.Context, values map[string]string, files map[string]*asset.Upload,
) (map[string]string, error) {
	fieldErrors := map[string]string{}

	for k := range values {
		if !Reserved(k) && !ValidKey(k) {
			fieldErrors[k] = MsgInvalidKey
		}
	}

	for k := range files {
		if !ValidKey(k) {
			fieldErrors[k] = MsgInvalidKey
		}
	}

	if len(fieldErrors) > 0 {
		return fieldErrors, nil
	}

	assets, err := setting.Assets(s.db)
	if err != nil {
		return nil, fmt.Errorf("load asset settings: %w", err)
	}

	// an asset key may only be pointed at images the site does not own
	for k, v := range values {
		current, isAsset := assets[k]
		v = strings.TrimSpace(v)

		if isAsset && files[k] == nil && v != "" && v != current && asset.Owned(v) {
			fieldErrors[k] = MsgInvalidRef
		}
	}

	if len(fieldErrors) > 0 {
		return fieldErrors, nil
	}

	var errs []error

	for k, up := range files {
		if up == nil {
			continue
		}

		if errSet := s.setAsset(ctx, k, up, ""); errSet != nil {
			errs = append(errs, errSet)
		}
	}

	for k, v := range values {
		if Reserved(k) {
			continue
		}

		if files[k] != nil {
			continue
		}

		if errSet := s.setValue(ctx, k, v); errSet != nil {
			errs = append(errs, errSet)
		}
	}

	if err = s.Invalidate(ctx); err != nil {
		errs = append(errs, err)
	}

	return nil, errors.Join(errs...)
}

// setAsset stores up (or points at ref when up is nil) as the value of key
// and removes the file the key owned before.
func (s *Service) setAsset(ctx context.Context, key string, up *asset.Upload, ref string) error {
	current := ""
	existing, err := setting.Get(s.db, key)

	switch {
	case err == nil:
		// only files uploaded through settings are removed here
		if existing.IsAsset && asset.BucketSettings.Holds(existing.Value) {
			current = existing.Value
		}
	case errors.Is(err, setting.ErrSettingNotFound):
		log.Warn().Str("key", key).Msg("new setting key introduced")
	default:
		return fmt.Errorf("read setting %s: %w", key, err)
	}

	persist := func(v string) error {
		_, _, err := setting.Set(s.db, key, v, true)
		return err
	}

	if up != nil {
		_, err = s.assets.Swap(ctx, asset.BucketSettings, current, up, persist)
		if err != nil {
			return fmt.Errorf("update setting %s: %w", key, err)
		}

		return nil
	}

	if err = persist(ref); err != nil {
		return fmt.Errorf("update setting %s: %w", key, err)
	}

	if current != ref {
		if errRm := s.assets.Remove(ctx, current); errRm != nil {
			log.Warn().Err(errRm).Str("key", current).Msg("failed to remove replaced setting image")
		}
	}

	return nil
}

func (s *Service) setValue(ctx context.Context, key, value string) error {
	existing, err := setting.Get(s.db, key)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return fmt.Errorf("read setting %s: %w", key, err)
	}

	if existing != nil && existing.IsAsset {
		// a file field left empty keeps its image; a non empty value re-points it
		if strings.TrimSpace(value) == "" || value == existing.Value {
			return nil
		}

		return s.setAsset(ctx, key, nil, strings.TrimSpace(value))
	}

	_, created, err := setting.Set(s.db, key, value, false)
	if err != nil {
		return fmt.Errorf("update setting %s: %w", key, err)
	}

	if created {
		log.Warn().Str("key", key).Msg("new setting key introduced")
	}

	return nil
}

// Invalidate drops both cached maps. Fills that read the store before the
// call are discarded.
func (s *Service) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++

	if err := s.cache.Delete(ctx, CacheKeyShared, CacheKeyHomepage); err != nil {
		return fmt.Errorf("invalidate settings cache: %w", err)
	}

	return nil
}

// Seed creates the keys of defaults that do not exist yet. Existing values
// are never overwritten.
func (s *Service) Seed(ctx context.Context, defaults []models.Setting) error {
	for _, d := range defaults {
		_, err := setting.Create(s.db, d.Key, d.Value, d.IsAsset)
		if err != nil && !errors.Is(err, setting.ErrSettingAlreadyExists) {
			return fmt.Errorf("seed setting %s: %w", d.Key, err)
		}
	}

	return s.Invalidate(ctx)
}
