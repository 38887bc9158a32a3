package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skillRepo SkillRepository
	media     mediaSyncer
	slot      mediaSlot
}

func newSkillHandler(skillRepo SkillRepository, store services.MediaStore, folders services.Folders) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skillRepo: skillRepo,
		media:     mediaSyncer{store: store, logger: logger},
		slot:      newSkillSlot(folders),
	}
}

// SkillResponse wraps a single skill
type SkillResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Skill   *models.Skill `json:"skill"`
}

// SkillCollection represents all skills, newest first
type SkillCollection struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Skills  []*models.Skill `json:"skills"`
}

// @Summary Get all skills
// @Tags Skills
// @Produce json
// @Success 200 {object} SkillCollection
// @Router /skills [get]
func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.skillRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SkillCollection{Success: true, Count: len(skills), Skills: skills})
	}
}

// @Summary Get skill
// @Tags Skills
// @Produce json
// @Param skillID path string true "Skill ID" format(uuid)
// @Success 200 {object} SkillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /skills/{skillID} [get]
func (h skillHandler) getSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseID(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.FindByID(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SkillResponse{Success: true, Skill: skill})
	}
}

func (h skillHandler) plan(s *models.Skill, in skillInput, creating bool) ([]*mediaPlan, map[string]string) {
	fields := make(map[string]string)
	plan, problems := planMedia(h.slot, s.Image(), in.Image, creating, s.SetImage)
	for field, msg := range problems {
		fields[field] = msg
	}
	if plan == nil {
		return nil, fields
	}
	if plan.action != mediaUpload {
		plan.set(plan.next)
	}
	return []*mediaPlan{plan}, fields
}

// createSkill creates a new skill. The image comes as an uploaded pair or an image file.
// @Summary Create skill
// @Tags Skills
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} SkillResponse
// @Failure 400 {object} ErrorResponse
// @Router /skills [post]
func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		req, err := readWriteRequest(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer req.Close()

		in, err := req.skill(h.slot)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill := &models.Skill{}
		in.applyTo(skill)

		plans, fields := h.plan(skill, in, true)
		skill.Normalize()
		for field, msg := range skill.Validate() {
			fields[field] = msg
		}
		if in.Image.File == nil && skill.Image().IsZero() {
			fields["image"] = "image is required"
		}
		if len(fields) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fields))
			return
		}

		if err := h.media.upload(ctx, plans); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skillRepo.Add(ctx, skill); err != nil {
			h.media.deleteAll(ctx, uploaded(plans), "discard upload after failed create")
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("skillId", skill.ID.String()).
			Str("source", string(req.source)).
			Msg("Skill created")

		h.responder.WriteJSONStatus(w, http.StatusCreated, SkillResponse{
			Success: true,
			Message: "Skill created successfully",
			Skill:   skill,
		})
	}
}

// @Summary Update skill
// @Tags Skills
// @Accept json,mpfd
// @Produce json
// @Param skillID path string true "Skill ID" format(uuid)
// @Success 200 {object} SkillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /skills/{skillID} [put]
func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		skillID, err := parseID(r, "skillID")
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

		in, err := req.skill(h.slot)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.skillRepo.FindByID(ctx, skillID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill := *existing
		in.applyTo(&skill)

		plans, fields := h.plan(&skill, in, false)
		skill.Normalize()
		for field, msg := range skill.Validate() {
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

		h.media.deleteAll(ctx, replaced(plans), "replace skill image")

		if err := h.skillRepo.Update(ctx, &skill); err != nil {
			h.media.deleteAll(ctx, uploaded(plans), "discard upload after failed update")
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SkillResponse{
			Success: true,
			Message: "Skill updated successfully",
			Skill:   &skill,
		})
	}
}

// @Summary Delete skill
// @Tags Skills
// @Produce json
// @Param skillID path string true "Skill ID" format(uuid)
// @Success 200 {object} SkillResponse
// @Failure 404 {object} ErrorResponse
// @Router /skills/{skillID} [delete]
func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		skillID, err := parseID(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.FindByID(ctx, skillID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.media.deleteAll(ctx, nonEmpty(
			storedAsset{publicID: skill.ImagePublicID, kind: services.MediaImage},
		), "delete skill")

		if err := h.skillRepo.Delete(ctx, skillID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SkillResponse{
			Success: true,
			Message: "Skill deleted successfully",
			Skill:   skill,
		})
	}
}
