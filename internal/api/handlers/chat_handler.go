package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
	"github.com/studyflow/studyflow-be/internal/services"
)

// ChatHandler handles chat turns with the study assistant.
type ChatHandler struct {
	users services.UserServiceProvider
	chat  services.ChatServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(users services.UserServiceProvider, chat services.ChatServiceProvider) *ChatHandler {
	return &ChatHandler{users: users, chat: chat}
}

// Chat sends one message to the assistant. The assistant is grounded in the
// user's study data; conversation history is supplied by the caller and not
// persisted server-side.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetUserByID(userID); err != nil {
		writeServiceError(w, err)
		return
	}

	var payload models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.chat.Chat(r.Context(), userID, payload.Message, payload.ConversationHistory)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Chat request failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply, ContextUsed: true})
}
