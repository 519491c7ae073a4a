package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DeliveryType string

const (
	DeliveryTypeDownload DeliveryType = "download" // served from a file or download URL
	DeliveryTypeEmail    DeliveryType = "email"    // sent out-of-band by staff
	DeliveryTypePhysical DeliveryType = "physical" // shipped to the delivery address
)

type Project struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Slug        string          `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  uint            `gorm:"index" json:"category_id"`
	Category    Category        `json:"category"`
	Tags        string          `gorm:"size:500" json:"tags"` // comma-separated

	FeaturedImage    string `json:"featured_image"`
	FeaturedImageURL string `json:"featured_image_url"` // external image URL (e.g. Google Drive link)
	DemoVideoURL     string `json:"demo_video_url"`     // YouTube or Vimeo URL

	DeliveryType DeliveryType `gorm:"type:VARCHAR(10);default:'download'" json:"delivery_type"`
	DownloadFile string       `json:"download_file"`
	DownloadURL  string       `json:"download_url"`

	IsActive        bool   `gorm:"default:true;index" json:"is_active"`
	CreatedByID     uint   `json:"created_by_id"`
	MetaDescription string `gorm:"size:160" json:"meta_description"`

	Images []ProjectImage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"images,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProjectImage is a gallery image attached to a project.
type ProjectImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"index" json:"project_id"`
	Image     string `json:"image"`
	ImageURL  string `json:"image_url"`
	AltText   string `gorm:"size:200" json:"alt_text"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

func (p *Project) TagList() []string {
	var tags []string
	for _, tag := range strings.Split(p.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// DisplayImageURL prefers the external URL over the locally uploaded file.
func (p *Project) DisplayImageURL() string {
	if p.FeaturedImageURL != "" {
		return ConvertGoogleDriveURL(p.FeaturedImageURL)
	}
	return p.FeaturedImage
}

func (img *ProjectImage) DisplayImageURL() string {
	if img.ImageURL != "" {
		return ConvertGoogleDriveURL(img.ImageURL)
	}
	return img.Image
}

// ConvertGoogleDriveURL rewrites a Google Drive sharing link into a direct
// image URL. The googleusercontent host has better CORS support than the
// drive.google.com viewer. Any other URL passes through untouched.
func ConvertGoogleDriveURL(url string) string {
	if !strings.Contains(url, "drive.google.com") || !strings.Contains(url, "/file/d/") {
		return url
	}
	rest := url[strings.Index(url, "/file/d/")+len("/file/d/"):]
	fileID, _, _ := strings.Cut(rest, "/")
	if fileID == "" {
		return url
	}
	return "https://lh3.googleusercontent.com/d/" + fileID + "=w800"
}

// EmbedVideoURL converts a YouTube or Vimeo watch URL to its embeddable
// player form. Already-embeddable or unrecognized URLs are returned as-is.
func (p *Project) EmbedVideoURL() string {
	url := p.DemoVideoURL
	if url == "" {
		return ""
	}

	switch {
	case strings.Contains(url, "youtube.com/watch"):
		if _, after, ok := strings.Cut(url, "v="); ok {
			id, _, _ := strings.Cut(after, "&")
			if id != "" {
				return "https://www.youtube.com/embed/" + id
			}
		}
	case strings.Contains(url, "youtu.be/"):
		_, after, _ := strings.Cut(url, "youtu.be/")
		id, _, _ := strings.Cut(after, "?")
		if id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case strings.Contains(url, "vimeo.com/"):
		_, after, _ := strings.Cut(url, "vimeo.com/")
		id, _, _ := strings.Cut(after, "?")
		if id != "" {
			return "https://player.vimeo.com/video/" + id
		}
	}
	return url
}

// Slugify lowercases and hyphenates a title for use in URLs.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // trim leading dashes
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
