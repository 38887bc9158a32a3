package services

import (
	"context"
	"io"
	"path"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// MediaKind selects the upload rules and the store's resource type.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
)

func (k MediaKind) Valid() bool {
	return k == MediaVideo || k == MediaImage
}

// MediaUpload is a file handed to the server for proxying to the store.
type MediaUpload struct {
	Kind        MediaKind
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaAsset is what the store returns for a successful upload.
type MediaAsset struct {
	URL      string
	PublicID string
}

func (a MediaAsset) Ref() models.MediaRef {
	return models.MediaRef{URL: a.URL, PublicID: a.PublicID}
}

// DeleteResult reports the outcome of a best-effort delete.
type DeleteResult struct {
	OK     bool
	Reason string
}

func Deleted() DeleteResult {
	return DeleteResult{OK: true}
}

func DeleteFailed(reason string) DeleteResult {
	return DeleteResult{Reason: reason}
}

// MediaStore stores and removes media assets.
type MediaStore interface {
	Upload(ctx context.Context, upload MediaUpload) (MediaAsset, error)
	Delete(ctx context.Context, publicID string, kind MediaKind) DeleteResult
}

// UploadSignature authorizes one direct browser upload.
type UploadSignature struct {
	Signature    string `json:"signature"`
	Timestamp    int64  `json:"timestamp"`
	Folder       string `json:"folder"`
	ResourceType string `json:"resource_type"`
	APIKey       string `json:"api_key"`
	CloudName    string `json:"cloud_name"`
	UploadPreset string `json:"upload_preset,omitempty"`
}

// PublicConfig is the unauthenticated client configuration.
type PublicConfig struct {
	CloudName    string `json:"cloudName"`
	UploadPreset string `json:"uploadPreset,omitempty"`
}

// UploadSigner is implemented by stores that support direct browser uploads.
type UploadSigner interface {
	SignUpload(folder string, kind MediaKind) (UploadSignature, error)
	PublicConfig() PublicConfig
}

// Folders are the store folders per media slot.
type Folders struct {
	ProjectVideos     string
	ProjectThumbnails string
	Skills            string
}

func NewFolders(prefix string) Folders {
	if prefix == "" {
		prefix = "portfolio"
	}
	return Folders{
		ProjectVideos:     path.Join(prefix, "projects", "videos"),
		ProjectThumbnails: path.Join(prefix, "projects", "thumbnails"),
		Skills:            path.Join(prefix, "skills"),
	}
}

// Allowed reports whether folder is one of the slot folders.
func (f Folders) Allowed(folder string) bool {
	switch folder {
	case f.ProjectVideos, f.ProjectThumbnails, f.Skills:
		return true
	}
	return false
}
