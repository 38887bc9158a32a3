package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

// handlerSettings carries the router options the handlers depend on
type handlerSettings struct {
	startupTime time.Time
	cookies     auth.CookiePolicy
	folders     services.Folders
	verbose     bool
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, settings handlerSettings) *routeHandlers {
	signer, _ := deps.Media.(services.UploadSigner)

	handlers := &routeHandlers{
		healthHandler:     newHealthHandler(settings.startupTime, deps.Database),
		projectHandler:    newProjectHandler(deps.Projects, deps.Media, settings.folders),
		skillHandler:      newSkillHandler(deps.Skills, deps.Media, settings.folders),
		userHandler:       newUserHandler(deps.Users, deps.Tokens, settings.cookies),
		cloudinaryHandler: newCloudinaryHandler(signer, settings.folders),
	}

	handlers.projectHandler.responder = handlers.projectHandler.responder.withVerbose(settings.verbose)
	handlers.skillHandler.responder = handlers.skillHandler.responder.withVerbose(settings.verbose)
	handlers.userHandler.responder = handlers.userHandler.responder.withVerbose(settings.verbose)
	handlers.cloudinaryHandler.responder = handlers.cloudinaryHandler.responder.withVerbose(settings.verbose)

	return handlers
}

// parseID reads a uuid path parameter.
func parseID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidIDError(param, raw)
	}
	return id, nil
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
	database    Pinger
}

func newHealthHandler(startupTime time.Time, database Pinger) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
		database:    database,
	}
}

// HealthResponse reports liveness and seconds since startup. Database is
// "ok" or "unreachable" when a database is wired.
type HealthResponse struct {
	Status   string  `json:"status" example:"ok"`
	Uptime   float64 `json:"uptime" example:"3600.5"`
	Database string  `json:"database,omitempty" example:"ok"`
}

// health reports that the process is serving
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Seconds(),
		}
		if h.database != nil {
			resp.Database = "ok"
			if err := h.database.Ping(r.Context()); err != nil {
				h.logger.Warn().Err(err).Msg("Database ping failed")
				resp.Database = "unreachable"
			}
		}
		h.responder.WriteJSON(w, resp)
	}
}
