package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

type tokenIssuer interface {
	Issue(id auth.Identity) (string, time.Time, error)
}

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  UserRepository
	tokens    tokenIssuer
	cookies   auth.CookiePolicy
}

func newUserHandler(userRepo UserRepository, tokens tokenIssuer, cookies auth.CookiePolicy) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
		cookies:   cookies,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned alongside the session cookie
type LoginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// login checks the credentials and sets the session cookie
// @Summary Log in
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse "Invalid password"
// @Failure 404 {object} ErrorResponse "Unknown user"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /users/login [post]
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		fields := map[string]string{}
		if req.Username == "" {
			fields["username"] = "username is required"
		}
		if req.Password == "" {
			fields["password"] = "password is required"
		}
		if len(fields) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fields))
			return
		}

		user, err := h.userRepo.FindByUsername(ctx, req.Username)
		if err != nil {
			if errs.IsNotFound(err) {
				recordLoginAttempt("unknown_user")
				h.responder.WriteError(w, errs.NewNotFoundError("User not found"))
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to verify password", err))
			return
		}
		if !ok {
			recordLoginAttempt("bad_password")
			h.logger.Warn().Str("username", user.Username).Msg("Login rejected")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, _, err := h.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue session", err))
			return
		}

		h.cookies.SetSession(w, r, token)
		recordLoginAttempt("success")

		h.responder.WriteJSON(w, LoginResponse{
			Message: "Login successful",
			User:    userResponse{Username: user.Username, ProfilePic: user.ProfilePic},
		})
	}
}

// logout clears the session cookie
// @Summary Log out
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]string
// @Router /users/logout [post]
func (h userHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.cookies.ClearSession(w, r)
		h.responder.WriteJSON(w, map[string]string{"message": "Logged out successfully"})
	}
}

// verify echoes the authenticated user
// @Summary Verify session
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /users/verify [get]
func (h userHandler) verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), identity.UserID)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewInvalidTokenError())
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"user":    userResponse{Username: user.Username, ProfilePic: user.ProfilePic},
		})
	}
}
