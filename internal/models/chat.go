package models

// ChatMessage is a single turn of conversation history, caller-supplied.
// Role is "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload for a chat turn. History is rolling state
// owned by the client; the server persists nothing across requests.
type ChatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []ChatMessage `json:"conversation_history"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response    string `json:"response"`
	ContextUsed bool   `json:"context_used"`
}
