package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func validProject() *Project {
	return &Project{
		Title:       "Portfolio",
		Description: "My site",
		Features:    []string{"auth"},
		Tools:       []string{"go"},
		GithubLink:  "https://github.com/someone/portfolio",
	}
}

func TestProjectValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := validProject()
		p.Normalize()
		assert.Empty(t, p.Validate())
	})

	t.Run("missing title and description", func(t *testing.T) {
		p := &Project{Title: "   "}
		p.Normalize()
		fields := p.Validate()
		assert.Equal(t, "title is required", fields["title"])
		assert.Equal(t, "description is required", fields["description"])
	})

	t.Run("long title accepted", func(t *testing.T) {
		p := validProject()
		p.Title = strings.Repeat("x", 1000)
		assert.Empty(t, p.Validate())
	})

	t.Run("bad url", func(t *testing.T) {
		p := validProject()
		p.DeployedURL = "not a url"
		assert.Equal(t, "deployedUrl must be a valid URL", p.Validate()["deployedUrl"])
	})

	t.Run("half media pair", func(t *testing.T) {
		p := validProject()
		p.CloudinaryVideoURL = "https://cdn/v.mp4"
		fields := p.Validate()
		assert.Contains(t, fields, "cloudinaryVideoPublicId")

		p = validProject()
		p.CloudinaryThumbnailPublicID = "thumb"
		assert.Contains(t, p.Validate(), "cloudinaryThumbnailUrl")
	})
}

func TestProjectNormalize(t *testing.T) {
	p := &Project{Title: " t ", Features: []string{" a ", "", "  "}}
	p.Normalize()

	assert.Equal(t, "t", p.Title)
	assert.Equal(t, []string{"a"}, []string(p.Features))
	require.NotNil(t, p.Tools)
	assert.Empty(t, p.Tools)
}

func TestSkillValidate(t *testing.T) {
	s := &Skill{Name: "Go", Topics: []string{"concurrency"}}
	s.Normalize()
	assert.Empty(t, s.Validate())

	fields := s.ValidateForCreate()
	assert.Equal(t, "image is required", fields["image"])

	s.SetImage(MediaRef{URL: "https://cdn/go.png", PublicID: "portfolio/skills/go"})
	assert.Empty(t, s.ValidateForCreate())

	s.Topics = []string{" "}
	s.Normalize()
	assert.Equal(t, "at least one topic is required", s.Validate()["topics"])
}

func TestMediaRef(t *testing.T) {
	assert.True(t, MediaRef{}.IsZero())
	assert.False(t, MediaRef{URL: "u"}.Complete())
	assert.True(t, MediaRef{URL: "u", PublicID: "p"}.Complete())
	assert.True(t, MediaRef{URL: "u", PublicID: "p"}.Equal(MediaRef{URL: "u", PublicID: "p"}))
}

func TestModelColumns(t *testing.T) {
	cols, err := modelColumns(&Project{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.Equal(t, "projects", cols.table)
	assert.Contains(t, cols.names, "cloudinary_video_public_id")
	assert.Contains(t, cols.names, "github_link")
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches(
		[]string{"id", "title", "zombie", "legacy"},
		[]string{"id", "title"},
	)
	assert.Equal(t, []string{"legacy", "zombie"}, got)
}
