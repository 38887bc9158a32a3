package services

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

const sniffLen = 3072

// UploadRule bounds what a server-proxied upload of one kind may be.
type UploadRule struct {
	Kind         MediaKind
	MaxBytes     int64
	Extensions   []string
	ContentTypes []string
}

var (
	VideoRule = UploadRule{
		Kind:       MediaVideo,
		MaxBytes:   100 << 20,
		Extensions: []string{"mp4", "mov", "avi", "wmv", "flv", "webm", "mkv"},
		ContentTypes: []string{
			"video/mp4", "video/quicktime", "video/x-msvideo", "video/x-ms-wmv",
			"video/x-flv", "video/webm", "video/x-matroska",
		},
	}
	ImageRule = UploadRule{
		Kind:         MediaImage,
		MaxBytes:     10 << 20,
		Extensions:   []string{"jpg", "jpeg", "png", "gif", "webp"},
		ContentTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
)

func RuleFor(kind MediaKind) UploadRule {
	if kind == MediaVideo {
		return VideoRule
	}
	return ImageRule
}

// Check validates the upload against the rule. field names the form field in
// errors. The upload body stays readable from the start.
func (r UploadRule) Check(field string, up *MediaUpload) error {
	if up.Size > r.MaxBytes {
		return errs.NewMaxBodySizeExceededError(field, r.MaxBytes)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(up.Filename)), ".")
	if !slices.Contains(r.Extensions, ext) {
		return errs.NewUnsupportedMediaTypeError(field, "."+ext, r.Extensions)
	}

	declared := up.ContentType
	if parsed, _, err := mime.ParseMediaType(declared); err == nil {
		declared = parsed
	}
	if !slices.Contains(r.ContentTypes, strings.ToLower(declared)) {
		return errs.NewUnsupportedMediaTypeError(field, declared, r.ContentTypes)
	}

	sniffed, err := sniff(up)
	if err != nil {
		return errs.NewMalformedPayloadError(field, err)
	}
	family, _, _ := strings.Cut(sniffed, "/")
	if (family == "video" || family == "image") && family != string(r.Kind) {
		return errs.NewUnsupportedMediaTypeError(field, sniffed, r.ContentTypes)
	}
	return nil
}

// sniff detects the content type from the first bytes and rewinds the body.
func sniff(up *MediaUpload) (string, error) {
	if up.Body == nil {
		return "", errors.New("empty upload")
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	header = header[:n]

	if seeker, ok := up.Body.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
	} else {
		up.Body = io.MultiReader(bytes.NewReader(header), up.Body)
	}
	return mimetype.Detect(header).String(), nil
}
