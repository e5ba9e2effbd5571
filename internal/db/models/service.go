package models

import "time"

// Service is an activity offered by the community (worship, youth, choir...).
// Inactive services stay in the back office but never reach the homepage.
type Service struct {
	// ID is the unique identifier for the service.
	ID uint64 `gorm:"primaryKey" json:"id"`
	Picture
	// TitleFR is the French name of the service.
	TitleFR string `gorm:"size:255;not null" json:"title_fr"`
	// TitleEN is the English name of the service.
	TitleEN string `gorm:"size:255;not null" json:"title_en"`
	// DescriptionFR is the French description.
	DescriptionFR string `gorm:"type:text;not null" json:"description_fr"`
	// DescriptionEN is the English description.
	DescriptionEN string `gorm:"type:text;not null" json:"description_en"`
	// IsActive publishes the service on the homepage.
	IsActive bool `gorm:"not null" json:"is_active"`
	// CreatedAt is the timestamp when the service was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the service was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Service model.
func (Service) TableName() string {
	return "services"
}
