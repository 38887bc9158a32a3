package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project represents a portfolio project with its media
type Project struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Description string                      `json:"description" db:"description" gorm:"type:text;not null" validate:"required"`
	Features    datatypes.JSONSlice[string] `json:"features" db:"features" gorm:"type:jsonb;not null"`
	Tools       datatypes.JSONSlice[string] `json:"tools" db:"tools" gorm:"type:jsonb;not null"`
	GithubLink  string                      `json:"githubLink" db:"github_link" gorm:"type:text" validate:"omitempty,url"`
	DeployedURL string                      `json:"deployedUrl" db:"deployed_url" gorm:"column:deployed_url;type:text" validate:"omitempty,url"`
	Duration    string                      `json:"duration" db:"duration" gorm:"type:text"`
	Challenges  string                      `json:"challenges" db:"challenges" gorm:"type:text"`

	CloudinaryVideoURL          string `json:"cloudinaryVideoUrl" db:"cloudinary_video_url" gorm:"column:cloudinary_video_url;type:text"`
	CloudinaryVideoPublicID     string `json:"cloudinaryVideoPublicId" db:"cloudinary_video_public_id" gorm:"column:cloudinary_video_public_id;type:text"`
	CloudinaryThumbnailURL      string `json:"cloudinaryThumbnailUrl" db:"cloudinary_thumbnail_url" gorm:"column:cloudinary_thumbnail_url;type:text"`
	CloudinaryThumbnailPublicID string `json:"cloudinaryThumbnailPublicId" db:"cloudinary_thumbnail_public_id" gorm:"column:cloudinary_thumbnail_public_id;type:text"`

	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_projects_created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (p *Project) Video() MediaRef {
	return MediaRef{URL: p.CloudinaryVideoURL, PublicID: p.CloudinaryVideoPublicID}
}

func (p *Project) SetVideo(ref MediaRef) {
	p.CloudinaryVideoURL, p.CloudinaryVideoPublicID = ref.URL, ref.PublicID
}

func (p *Project) Thumbnail() MediaRef {
	return MediaRef{URL: p.CloudinaryThumbnailURL, PublicID: p.CloudinaryThumbnailPublicID}
}

func (p *Project) SetThumbnail(ref MediaRef) {
	p.CloudinaryThumbnailURL, p.CloudinaryThumbnailPublicID = ref.URL, ref.PublicID
}

// Normalize trims text fields and guarantees non-nil lists.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.GithubLink = strings.TrimSpace(p.GithubLink)
	p.DeployedURL = strings.TrimSpace(p.DeployedURL)
	p.Duration = strings.TrimSpace(p.Duration)
	p.Features = cleanList(p.Features)
	p.Tools = cleanList(p.Tools)
}

// Validate returns a field -> message map, empty when the project is valid.
func (p *Project) Validate() map[string]string {
	fields := validateStruct(p)
	checkPair(fields, "cloudinaryVideoUrl", "cloudinaryVideoPublicId", p.Video())
	checkPair(fields, "cloudinaryThumbnailUrl", "cloudinaryThumbnailPublicId", p.Thumbnail())
	return fields
}

func cleanList(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, item := range in {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
