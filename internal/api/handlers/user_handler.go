package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
	"github.com/studyflow/studyflow-be/internal/services"
)

// UserHandler handles the per-user resources: session listing and creation,
// and the derived statistics view. Each route resolves the user first, so
// an unknown user id is a 404 before sessions are touched.
type UserHandler struct {
	users    services.UserServiceProvider
	sessions services.SessionServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

// GetSessions lists a user's sessions, newest first.
func (h *UserHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetUserByID(userID); err != nil {
		writeServiceError(w, err)
		return
	}

	sessions, err := h.sessions.ListByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list sessions")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// CreateSession logs a new study session for a user.
func (h *UserHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetUserByID(userID); err != nil {
		writeServiceError(w, err)
		return
	}

	var payload models.SessionCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.sessions.Create(userID, payload)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to create session")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetStats returns the derived statistics view for a user.
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetUserByID(userID); err != nil {
		writeServiceError(w, err)
		return
	}

	stats, err := h.sessions.StatsForUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute stats")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
