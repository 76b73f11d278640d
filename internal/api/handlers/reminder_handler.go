package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
	"github.com/studyflow/studyflow-be/internal/services"
)

// ReminderHandler exposes the reminder report consumed by an external
// automation workflow. Requests authenticate with an X-API-Key header.
type ReminderHandler struct {
	users  services.UserServiceProvider
	apiKey string
}

// NewReminderHandler creates a new ReminderHandler. An empty apiKey leaves
// the endpoint unconfigured and every request answers 503.
func NewReminderHandler(users services.UserServiceProvider, apiKey string) *ReminderHandler {
	return &ReminderHandler{users: users, apiKey: apiKey}
}

// UsersWithoutSessionsToday lists users with no session dated today.
func (h *ReminderHandler) UsersWithoutSessionsToday(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		log.Warn().Msg("Reminder endpoint called but REMINDER_API_KEY is not configured")
		writeError(w, http.StatusServiceUnavailable, "Reminder service not configured")
		return
	}
	provided := r.Header.Get("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.apiKey)) != 1 {
		log.Warn().Msg("Invalid API key on reminder endpoint")
		writeError(w, http.StatusUnauthorized, "Invalid API key")
		return
	}

	today := models.Today()
	users, err := h.users.UsersWithoutSessionOn(today)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query users without sessions")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.UsersWithoutSessions{
		Date:  today.String(),
		Count: len(users),
		Users: users,
	})
}
