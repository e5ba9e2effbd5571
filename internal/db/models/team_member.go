package models

import "time"

// TeamMember is a person presented in the team section.
type TeamMember struct {
	// ID is the unique identifier for the member.
	ID uint64 `gorm:"primaryKey" json:"id"`
	Picture
	// Name is displayed as is in both languages.
	Name string `gorm:"size:255;not null" json:"name"`
	// RoleFR is the French job title (not an access control role).
	RoleFR string `gorm:"size:255;not null" json:"role_fr"`
	// RoleEN is the English job title.
	RoleEN string `gorm:"size:255;not null" json:"role_en"`
	// BioFR is an optional French biography.
	BioFR string `gorm:"type:text" json:"bio_fr"`
	// BioEN is an optional English biography.
	BioEN string `gorm:"type:text" json:"bio_en"`
	// Email is an optional public contact address.
	Email string `gorm:"size:255" json:"email"`
	// Phone is an optional public phone number.
	Phone string `gorm:"size:20" json:"phone"`
	// Order sorts members ascending.
	Order int `gorm:"column:sort_order;not null;default:0" json:"order"`
	// CreatedAt is the timestamp when the member was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the member was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the TeamMember model.
func (TeamMember) TableName() string {
	return "team_members"
}
