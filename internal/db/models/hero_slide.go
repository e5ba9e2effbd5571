package models

import "time"

// HeroSlide is one slide of the homepage carousel.
type HeroSlide struct {
	// ID is the unique identifier for the slide.
	ID uint64 `gorm:"primaryKey" json:"id"`
	Picture
	// TitleFR is the French headline.
	TitleFR string `gorm:"size:255" json:"title_fr"`
	// TitleEN is the English headline.
	TitleEN string `gorm:"size:255" json:"title_en"`
	// SubtitleFR is the French line under the headline.
	SubtitleFR string `gorm:"size:255" json:"subtitle_fr"`
	// SubtitleEN is the English line under the headline.
	SubtitleEN string `gorm:"size:255" json:"subtitle_en"`
	// ButtonTextFR is the French call to action label.
	ButtonTextFR string `gorm:"size:255" json:"button_text_fr"`
	// ButtonTextEN is the English call to action label.
	ButtonTextEN string `gorm:"size:255" json:"button_text_en"`
	// ButtonURL is where the call to action points.
	ButtonURL string `gorm:"size:255" json:"button_url"`
	// Order sorts slides ascending, ties keep insertion order.
	Order int `gorm:"column:sort_order;not null;default:0" json:"order"`
	// CreatedAt is the timestamp when the slide was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the slide was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the HeroSlide model.
func (HeroSlide) TableName() string {
	return "hero_slides"
}
