package models

// All lists every model handled by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&User{},
		&Setting{},
		&HeroSlide{},
		&BibleVerse{},
		&TeamMember{},
		&NewsItem{},
		&Service{},
		&GalleryImage{},
	}
}
