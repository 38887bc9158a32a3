package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Skill is a named skill area with its topics and an icon image
type Skill struct {
	ID            uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name          string                      `json:"name" db:"name" gorm:"type:text;not null" validate:"required"`
	Topics        datatypes.JSONSlice[string] `json:"topics" db:"topics" gorm:"type:jsonb;not null" validate:"min=1"`
	ImageURL      string                      `json:"imageUrl" db:"image_url" gorm:"column:image_url;type:text"`
	ImagePublicID string                      `json:"imagePublicId" db:"image_public_id" gorm:"column:image_public_id;type:text"`
	CreatedAt     time.Time                   `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_skills_created_at"`
	UpdatedAt     time.Time                   `json:"updatedAt" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (s *Skill) Image() MediaRef {
	return MediaRef{URL: s.ImageURL, PublicID: s.ImagePublicID}
}

func (s *Skill) SetImage(ref MediaRef) {
	s.ImageURL, s.ImagePublicID = ref.URL, ref.PublicID
}

func (s *Skill) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Topics = cleanList(s.Topics)
}

// Validate checks a skill being updated. The image may be absent.
func (s *Skill) Validate() map[string]string {
	fields := validateStruct(s)
	if _, ok := fields["topics"]; ok {
		fields["topics"] = "at least one topic is required"
	}
	checkPair(fields, "imageUrl", "imagePublicId", s.Image())
	return fields
}

// ValidateForCreate additionally requires the image.
func (s *Skill) ValidateForCreate() map[string]string {
	fields := s.Validate()
	if s.Image().IsZero() {
		fields["image"] = "image is required"
	}
	return fields
}
