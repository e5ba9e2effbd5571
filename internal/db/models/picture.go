package models

// Picture is embedded by every record that shows an image. Image holds the
// canonical reference: a storage key owned by the site, an external URL or
// a bundled /static/ asset. ImageURL is never persisted; it is filled from
// Image by the asset manager right before rendering.
type Picture struct {
	// Image is the stored reference, empty when the record has no image.
	Image string `gorm:"size:255" json:"image"`
	// ImageURL is the public URL derived from Image.
	ImageURL string `gorm:"-" json:"image_url"`
}

// Pic returns the embedded picture so generic code can reach it.
func (p *Picture) Pic() *Picture {
	return p
}

// Pictured is implemented by records embedding Picture.
type Pictured interface {
	Pic() *Picture
}
