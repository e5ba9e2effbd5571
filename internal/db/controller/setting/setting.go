// Package setting provides CRUD operations for the site settings store.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

const (
	keyQueryPattern = "setting_key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to create/update a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetAll retrieves all settings ordered by key.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Order("setting_key").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Assets returns the current value of every asset setting, by key.
func Assets(db *gorm.DB) (map[string]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if err := db.Where("is_asset = ?", true).Find(&settings).Error; err != nil {
		return nil, err
	}

	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Key] = s.Value
	}

	return m, nil
}

// Create creates a new setting in the database.
func Create(db *gorm.DB, key, value string, isAsset bool) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var existing models.Setting
	result := db.Where(keyQueryPattern, key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	setting := &models.Setting{
		Key:     key,
		Value:   value,
		IsAsset: isAsset,
	}

	result = db.Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Set creates or updates a setting by key (upsert operation). created tells
// whether the key did not exist before.
func Set(db *gorm.DB, key, value string, isAsset bool) (setting *models.Setting, created bool, err error) {
	if db == nil {
		return nil, false, ErrDBNil
	}
	if key == "" {
		return nil, false, ErrSettingKeyEmpty
	}

	var existing models.Setting
	result := db.Where(keyQueryPattern, key).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting, err = Create(db, key, value, isAsset)
		return setting, err == nil, err
	}
	if result.Error != nil {
		return nil, false, result.Error
	}

	existing.Value = value
	existing.IsAsset = isAsset
	result = db.Save(&existing)
	if result.Error != nil {
		return nil, false, result.Error
	}

	return &existing, false, nil
}
