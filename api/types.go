package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler     healthHandler
	projectHandler    projectHandler
	skillHandler      skillHandler
	userHandler       userHandler
	cloudinaryHandler cloudinaryHandler
}

// ProjectRepository is the persistence the project handler needs.
type ProjectRepository interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SkillRepository interface {
	FindAll(ctx context.Context) ([]*models.Skill, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	Add(ctx context.Context, skill *models.Skill) error
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Success bool              `json:"success" example:"false"`
	Error   string            `json:"error" example:"project not found"`
	Field   string            `json:"field,omitempty" example:"title"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// userResponse is the public view of the admin user
type userResponse struct {
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic,omitempty"`
}
