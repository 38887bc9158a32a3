package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type cloudinaryHandler struct {
	responder Responder
	logger    zerolog.Logger
	signer    services.UploadSigner
	folders   services.Folders
}

// newCloudinaryHandler takes a nil signer when the media backend cannot sign uploads.
func newCloudinaryHandler(signer services.UploadSigner, folders services.Folders) cloudinaryHandler {
	logger := log.With().Str("handlerName", "cloudinaryHandler").Logger()

	return cloudinaryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		signer:    signer,
		folders:   folders,
	}
}

// getConfig returns the public upload configuration
// @Summary Cloudinary client configuration
// @Tags Media
// @Produce json
// @Success 200 {object} services.PublicConfig
// @Router /cloudinary-config [get]
func (h cloudinaryHandler) getConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.signer == nil {
			h.responder.WriteError(w, errs.NewMediaUnconfiguredError("direct uploads are not available for this media backend"))
			return
		}
		h.responder.WriteJSON(w, h.signer.PublicConfig())
	}
}

type signatureRequest struct {
	Folder       string `json:"folder"`
	ResourceType string `json:"resource_type"`
}

// sign issues a signature for one direct browser upload
// @Summary Sign a direct upload
// @Tags Media
// @Accept json
// @Produce json
// @Success 200 {object} services.UploadSignature
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Credentials not configured"
// @Router /cloudinary-signature [post]
func (h cloudinaryHandler) sign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.signer == nil {
			h.responder.WriteError(w, errs.NewMediaUnconfiguredError("direct uploads are not available for this media backend"))
			return
		}

		var req signatureRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req)
		if err != nil && err != io.EOF {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		kind := services.MediaKind(strings.ToLower(strings.TrimSpace(req.ResourceType)))
		if kind == "" {
			kind = services.MediaImage
		}
		if !kind.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("resource_type", "must be video or image"))
			return
		}

		folder := strings.TrimSpace(req.Folder)
		if folder == "" {
			folder = h.folders.ProjectThumbnails
			if kind == services.MediaVideo {
				folder = h.folders.ProjectVideos
			}
		}
		if !h.folders.Allowed(folder) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("folder", "unknown upload folder"))
			return
		}

		signature, err := h.signer.SignUpload(folder, kind)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, signature)
	}
}
