package models

import "time"

// NewsItem is an article of the news section. It is public once PublishedAt
// is in the past.
type NewsItem struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	Picture
	TitleFR     string    `gorm:"size:255;not null" json:"title_fr"`
	TitleEN     string    `gorm:"size:255;not null" json:"title_en"`
	ContentFR   string    `gorm:"type:text;not null" json:"content_fr"`
	ContentEN   string    `gorm:"type:text;not null" json:"content_en"`
	PublishedAt time.Time `gorm:"index;not null" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "news_items"
}
