package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
	"github.com/studyflow/studyflow-be/internal/services"
)

// SessionHandler handles update and delete on individual sessions.
type SessionHandler struct {
	service services.SessionServiceProvider
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service services.SessionServiceProvider) *SessionHandler {
	return &SessionHandler{service: service}
}

// Update applies a partial update to a session. Fields omitted from the
// payload are left unchanged.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload models.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Update(id, payload)
	if err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("Failed to update session")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Delete removes a session. 204 with no body on success, 404 when the id
// does not resolve (including a repeated delete).
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(id); err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("Failed to delete session")
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
