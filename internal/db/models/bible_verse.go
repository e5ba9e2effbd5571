package models

import "time"

// BibleVerse is a quotation shown in the verses band of the homepage.
type BibleVerse struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// TextFR and TextEN hold the verse itself.
	TextFR string `gorm:"type:text;not null" json:"text_fr"`
	TextEN string `gorm:"type:text;not null" json:"text_en"`
	// ReferenceFR and ReferenceEN hold the book, chapter and verse, e.g. "Jean 3:16".
	ReferenceFR string `gorm:"size:255;not null" json:"reference_fr"`
	ReferenceEN string `gorm:"size:255;not null" json:"reference_en"`
	// Order sorts verses ascending.
	Order int `gorm:"column:sort_order;not null;default:0" json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the BibleVerse model.
func (BibleVerse) TableName() string {
	return "bible_verses"
}
