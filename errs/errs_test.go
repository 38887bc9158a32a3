package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		is     func(error) bool
	}{
		{"not found", NewNotFound("project"), http.StatusNotFound, IsNotFound},
		{"not found message", NewNotFoundError("User not found"), http.StatusNotFound, IsNotFound},
		{"validation", NewValidationError(map[string]string{"title": "title is required"}), http.StatusBadRequest, IsValidation},
		{"invalid id", NewInvalidIDError("projectID", "abc"), http.StatusBadRequest, IsInvalidIDError},
		{"missing token", NewMissingTokenError(), http.StatusUnauthorized, IsUnauthorized},
		{"expired token", NewExpiredTokenError(), http.StatusUnauthorized, IsExpiredTokenError},
		{"invalid credentials", NewInvalidCredentialsError(), http.StatusUnauthorized, IsInvalidCredentialsError},
		{"too large", NewMaxBodySizeExceededError("video", 10), http.StatusRequestEntityTooLarge, IsMaxBodySizeExceededError},
		{"unconfigured media", NewMediaUnconfiguredError("no credentials"), http.StatusInternalServerError, IsMediaUnconfigured},
		{"missing config", NewConfigMissingError("JWT_SECRET"), http.StatusInternalServerError, IsConfigMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *ApiErr
			require.ErrorAs(t, tt.err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.True(t, tt.is(tt.err))

			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, tt.is(wrapped), "matches through wrapping")
		})
	}
}

func TestTaggedMessage(t *testing.T) {
	err := NewInvalidIDError("projectID", "abc")
	assert.Equal(t, "invalid projectID", err.Message())
	assert.Equal(t, "projectID", err.Field)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestValidationFields(t *testing.T) {
	fields := map[string]string{"topics": "at least one topic is required", "name": "name is required"}
	err := NewValidationError(fields)

	assert.Equal(t, "validation failed", err.Message())
	assert.Equal(t, "name, topics", err.Details)
	assert.Equal(t, fields, ValidationFields(err))
	assert.Nil(t, ValidationFields(errors.New("plain")))
}

func TestDatabaseError(t *testing.T) {
	t.Run("record not found", func(t *testing.T) {
		err := NewDatabaseError("find", "skill", gorm.ErrRecordNotFound)
		assert.Equal(t, http.StatusNotFound, err.StatusCode)
		assert.True(t, IsNotFound(err))
	})

	t.Run("duplicate key", func(t *testing.T) {
		err := NewDatabaseError("create", "user", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username"`))
		assert.Equal(t, http.StatusConflict, err.StatusCode)
		assert.True(t, IsAlreadyExists(err))
	})

	t.Run("connection", func(t *testing.T) {
		err := NewDatabaseError("find", "project", errors.New("failed to connect: connection refused"))
		assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
		assert.True(t, IsDatabaseConnection(err))
	})

	t.Run("api errors pass through", func(t *testing.T) {
		original := NewNotFound("project")
		assert.Same(t, original, NewDatabaseError("update", "project", original))
	})

	t.Run("generic", func(t *testing.T) {
		cause := errors.New("syntax error")
		err := NewDatabaseError("list", "projects", cause)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
		assert.ErrorIs(t, err, ErrDatabaseQuery)
		assert.Equal(t, "database query failed: Failed to list projects -> syntax error", err.GetFullError())
	})
}
