// Package models contains database model definitions.
package models

import "time"

// Setting is one entry of the site wide key/value store (site name, contact
// details, social links, about texts, logo).
type Setting struct {
	// ID is the unique identifier for the setting.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Key is the unique setting name, lower snake case.
	Key string `gorm:"column:setting_key;uniqueIndex;size:100;not null" json:"key"`
	// Value is the literal value, or an image reference when IsAsset is set.
	Value string `gorm:"type:text" json:"value"`
	// IsAsset marks values written from an uploaded file.
	IsAsset bool `gorm:"not null;default:false" json:"is_asset"`
	// CreatedAt is the timestamp when the setting was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the setting was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
