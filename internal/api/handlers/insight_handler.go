package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/services"
)

// InsightHandler exposes study pattern analyses.
type InsightHandler struct {
	users    services.UserServiceProvider
	insights services.InsightServiceProvider
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(users services.UserServiceProvider, insights services.InsightServiceProvider) *InsightHandler {
	return &InsightHandler{users: users, insights: insights}
}

// Trends analyzes the user's study activity over a trailing window.
// The window length comes from the optional "days" query parameter.
func (h *InsightHandler) Trends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetUserByID(userID); err != nil {
		writeServiceError(w, err)
		return
	}

	trends, err := h.insights.TrendsForUser(userID, daysParam(r, services.DefaultTrendDays))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute trends")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trends)
}

// Neglected splits the user's subjects into recently-active and neglected.
func (h *InsightHandler) Neglected(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetUserByID(userID); err != nil {
		writeServiceError(w, err)
		return
	}

	neglected, err := h.insights.NeglectedForUser(userID, daysParam(r, services.DefaultNeglectedDays))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute neglected subjects")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, neglected)
}

func daysParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}
