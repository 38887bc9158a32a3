package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
}

// CloudinaryConfigFrom reads credentials. CLOUDINARY_URL takes precedence
// over the discrete keys.
func CloudinaryConfigFrom(cfg map[string]string) (CloudinaryConfig, error) {
	out := CloudinaryConfig{
		CloudName:    config.GetString(cfg, "CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       config.GetString(cfg, "CLOUDINARY_API_KEY", ""),
		APISecret:    config.GetString(cfg, "CLOUDINARY_API_SECRET", ""),
		UploadPreset: config.GetString(cfg, "CLOUDINARY_UPLOAD_PRESET", ""),
	}
	if raw := config.GetString(cfg, "CLOUDINARY_URL", ""); raw != "" {
		cld, err := cloudinary.NewFromURL(raw)
		if err != nil {
			return out, errs.NewConfigInvalidError("CLOUDINARY_URL", err)
		}
		out.CloudName = cld.Config.Cloud.CloudName
		out.APIKey = cld.Config.Cloud.APIKey
		out.APISecret = cld.Config.Cloud.APISecret
	}
	return out, nil
}

func (c CloudinaryConfig) complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// cloudinaryUploader is the part of the SDK the store calls.
type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type CloudinaryStore struct {
	cfg      CloudinaryConfig
	uploader cloudinaryUploader
	now      func() time.Time
}

// NewCloudinaryStore builds the store. Missing credentials are not fatal:
// uploads and signing then fail with a configuration error.
func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	store := &CloudinaryStore{cfg: cfg, now: time.Now}
	if !cfg.complete() {
		log.Warn().Msg("Cloudinary credentials are not configured, media uploads are disabled")
		return store, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, errs.NewConfigInvalidError("CLOUDINARY_CLOUD_NAME", err)
	}
	store.uploader = &cld.Upload
	return store, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, up MediaUpload) (MediaAsset, error) {
	if s.uploader == nil {
		return MediaAsset{}, errs.NewMediaUnconfiguredError("Cloudinary credentials are not configured")
	}

	res, err := s.uploader.Upload(ctx, up.Body, uploader.UploadParams{
		Folder:       up.Folder,
		ResourceType: string(up.Kind),
	})
	if err != nil {
		return MediaAsset{}, errs.NewMediaUploadError(string(up.Kind), err)
	}
	if res.Error.Message != "" {
		return MediaAsset{}, errs.NewMediaUploadError(string(up.Kind), errors.New(res.Error.Message))
	}
	return MediaAsset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete destroys the asset. An asset Cloudinary does not know counts as deleted.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string, kind MediaKind) DeleteResult {
	if publicID == "" {
		return Deleted()
	}
	if s.uploader == nil {
		return DeleteFailed("cloudinary not configured")
	}

	res, err := s.uploader.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(kind),
	})
	if err != nil {
		return DeleteFailed(err.Error())
	}
	if res.Error.Message != "" {
		return DeleteFailed(res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return Deleted()
	default:
		return DeleteFailed("unexpected result: " + res.Result)
	}
}

// SignUpload signs folder and timestamp (and the preset when set). The
// resource type, cloud name and API key are returned but not signed.
func (s *CloudinaryStore) SignUpload(folder string, kind MediaKind) (UploadSignature, error) {
	if s.cfg.APISecret == "" {
		return UploadSignature{}, errs.NewConfigMissingError("CLOUDINARY_API_SECRET")
	}
	if s.cfg.APIKey == "" || s.cfg.CloudName == "" {
		return UploadSignature{}, errs.NewConfigMissingError("CLOUDINARY_API_KEY")
	}

	timestamp := s.now().Unix()
	params := url.Values{}
	params.Set("folder", folder)
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	if s.cfg.UploadPreset != "" {
		params.Set("upload_preset", s.cfg.UploadPreset)
	}

	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return UploadSignature{}, errs.NewInternalErrorWithCause("failed to sign upload", err)
	}

	return UploadSignature{
		Signature:    signature,
		Timestamp:    timestamp,
		Folder:       folder,
		ResourceType: string(kind),
		APIKey:       s.cfg.APIKey,
		CloudName:    s.cfg.CloudName,
		UploadPreset: s.cfg.UploadPreset,
	}, nil
}

func (s *CloudinaryStore) PublicConfig() PublicConfig {
	return PublicConfig{CloudName: s.cfg.CloudName, UploadPreset: s.cfg.UploadPreset}
}
