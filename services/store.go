package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

// NewMediaStoreFromConfig picks the backend named by MEDIA_BACKEND
// (cloudinary by default, or s3).
func NewMediaStoreFromConfig(ctx context.Context, cfg map[string]string) (MediaStore, error) {
	backend := strings.ToLower(config.GetString(cfg, "MEDIA_BACKEND", "cloudinary"))
	log.Info().Str("backend", backend).Msg("Configuring media store")

	switch backend {
	case "cloudinary":
		cldCfg, err := CloudinaryConfigFrom(cfg)
		if err != nil {
			return nil, err
		}
		store, err := NewCloudinaryStore(cldCfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errs.NewConfigInvalidError("MEDIA_BACKEND", nil)
	}
}
