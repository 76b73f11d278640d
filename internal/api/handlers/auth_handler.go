package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/services"
)

// AuthHandler handles email-only registration and login.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// AuthPayload carries the email for both register and login requests.
type AuthPayload struct {
	Email string `json:"email"`
}

// Register handles new user registration. 201 on success, 409 when the
// email is already taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(payload.Email)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Registration failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login returns the existing user for an email. No password or token is
// involved; the client is trusted to remember the returned id.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Login(payload.Email)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Login failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
