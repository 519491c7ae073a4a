package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `json:"image"`
	ImageURL    string    `json:"image_url"` // external image URL (e.g. Google Drive link)
	Projects    []Project `gorm:"foreignKey:CategoryID" json:"projects,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayImageURL prefers the external URL over the locally uploaded file.
func (cat *Category) DisplayImageURL() string {
	if cat.ImageURL != "" {
		return ConvertGoogleDriveURL(cat.ImageURL)
	}
	return cat.Image
}
