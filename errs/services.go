package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party Media Store Errors
var (
	ErrMediaUpload       = errors.New("media upload failed")
	ErrMediaDelete       = errors.New("media delete failed")
	ErrMediaUnconfigured = errors.New("media store not configured")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

func NewMediaUploadError(field string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrMediaUpload,
		Details:    fmt.Sprintf("Failed to upload %s", field),
		Field:      field,
		Cause:      cause,
	}
}

func NewMediaDeleteError(publicID string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrMediaDelete,
		Details:    fmt.Sprintf("Failed to delete asset %s", publicID),
		Cause:      cause,
	}
}

func NewMediaUnconfiguredError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrMediaUnconfigured,
		Details:    details,
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not configured", key),
		Field:      key,
	}
}

func NewConfigInvalidError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("%s is invalid", key),
		Field:      key,
		Cause:      cause,
	}
}

func IsMediaUploadError(err error) bool {
	return errors.Is(err, ErrMediaUpload)
}

func IsMediaDeleteError(err error) bool {
	return errors.Is(err, ErrMediaDelete)
}

func IsMediaUnconfigured(err error) bool {
	return errors.Is(err, ErrMediaUnconfigured)
}

func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
