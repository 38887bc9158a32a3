package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo ProjectRepository
	media       mediaSyncer
	slots       projectSlots
}

func newProjectHandler(projectRepo ProjectRepository, store services.MediaStore, folders services.Folders) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		media:       mediaSyncer{store: store, logger: logger},
		slots:       newProjectSlots(folders),
	}
}

// ProjectResponse wraps a single project
type ProjectResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Project *models.Project `json:"project"`
}

// ProjectCollection represents all projects, newest first
type ProjectCollection struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Projects []*models.Project `json:"projects"`
}

// getAllProjects retrieves all projects
// @Summary Get all projects
// @Description Retrieves all projects, newest first
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Success:  true,
			Count:    len(projects),
			Projects: projects,
		})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectResponse "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectResponse{Success: true, Project: project})
	}
}

// plan resolves both media slots of p against the request.
func (h projectHandler) plan(p *models.Project, in projectInput, creating bool) ([]*mediaPlan, map[string]string) {
	fields := make(map[string]string)
	slots := []struct {
		slot    mediaSlot
		current models.MediaRef
		in      mediaInput
		set     func(models.MediaRef)
	}{
		{h.slots.video, p.Video(), in.Video, p.SetVideo},
		{h.slots.thumbnail, p.Thumbnail(), in.Thumbnail, p.SetThumbnail},
	}

	var plans []*mediaPlan
	for _, s := range slots {
		plan, problems := planMedia(s.slot, s.current, s.in, creating, s.set)
		for field, msg := range problems {
			fields[field] = msg
		}
		if plan == nil {
			continue
		}
		if plan.action != mediaUpload {
			plan.set(plan.next)
		}
		plans = append(plans, plan)
	}
	return plans, fields
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a project from JSON (media already uploaded) or multipart with video/thumbnail files
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} ProjectResponse "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		req, err := readWriteRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer req.Close()

		in, err := req.project(h.slots)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := &models.Project{}
		in.applyTo(project)

		plans, fields := h.plan(project, in, true)
		project.Normalize()
		for field, msg := range project.Validate() {
			fields[field] = msg
		}
		if len(fields) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fields))
			return
		}

		if err := h.media.upload(ctx, plans); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Add(ctx, project); err != nil {
			h.media.deleteAll(ctx, uploaded(plans), "discard upload after failed create")
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("projectId", project.ID.String()).
			Str("source", string(req.source)).
			Msg("Project created")

		h.responder.WriteJSONStatus(w, http.StatusCreated, ProjectResponse{
			Success: true,
			Message: "Project created successfully",
			Project: project,
		})
	}
}

// updateProject updates an existing project
// @Summary Update project
// @Description Merges the supplied fields into the project. Replaced or removed media are deleted from the media store.
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body models.Project true "Updated project data"
// @Success 200 {object} ProjectResponse "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		projectID, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		req, err := readWriteRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer req.Close()

		in, err := req.project(h.slots)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.projectRepo.FindByID(ctx, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := *existing
		in.applyTo(&project)

		plans, fields := h.plan(&project, in, false)
		project.Normalize()
		for field, msg := range project.Validate() {
			fields[field] = msg
		}
		if len(fields) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fields))
			return
		}

		if err := h.media.upload(ctx, plans); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.media.deleteAll(ctx, replaced(plans), "replace project media")

		if err := h.projectRepo.Update(ctx, &project); err != nil {
			h.media.deleteAll(ctx, uploaded(plans), "discard upload after failed update")
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectResponse{
			Success: true,
			Message: "Project updated successfully",
			Project: &project,
		})
	}
}

// deleteProject deletes a project and its media
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectResponse "Deleted project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting project"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		projectID, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(ctx, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.media.deleteAll(ctx, nonEmpty(
			storedAsset{publicID: project.CloudinaryVideoPublicID, kind: services.MediaVideo},
			storedAsset{publicID: project.CloudinaryThumbnailPublicID, kind: services.MediaImage},
		), "delete project")

		if err := h.projectRepo.Delete(ctx, projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectResponse{
			Success: true,
			Message: "Project deleted successfully",
			Project: project,
		})
	}
}
