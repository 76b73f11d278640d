package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
)

// chatContextSessions bounds how many recent sessions the study context
// includes; notes within them are truncated to chatNotesPreview runes.
const (
	chatContextSessions = 10
	chatNotesPreview    = 100
)

// ChatCompleter is the minimal surface of the upstream text-generation API.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error)
}

// ChatConfig carries the upstream model settings.
type ChatConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// ChatServiceProvider defines the interface for the chat assistant.
type ChatServiceProvider interface {
	Chat(ctx context.Context, userID, message string, history []models.ChatMessage) (string, error)
}

// ChatService grounds an external assistant in the user's study data: it
// assembles a context block from stats and recent sessions, sends it with
// the rolling history to the upstream API, and relays the reply verbatim.
type ChatService struct {
	sessions SessionServiceProvider
	llm      ChatCompleter
	timeout  time.Duration
}

// NewChatService creates a ChatService. An empty API key leaves the service
// unconfigured; Chat then fails with ErrChatNotConfigured.
func NewChatService(sessions SessionServiceProvider, cfg ChatConfig) *ChatService {
	var llm ChatCompleter
	if cfg.APIKey != "" {
		llm = newAnthropicCompleter(cfg)
	}
	return &ChatService{sessions: sessions, llm: llm, timeout: cfg.Timeout}
}

// NewChatServiceWithCompleter wires an explicit completer, used in tests.
func NewChatServiceWithCompleter(sessions SessionServiceProvider, llm ChatCompleter, timeout time.Duration) *ChatService {
	return &ChatService{sessions: sessions, llm: llm, timeout: timeout}
}

// Chat processes one chat turn. A single attempt is made against the
// upstream API; failures surface as ErrUpstream with the underlying message.
func (s *ChatService) Chat(ctx context.Context, userID, message string, history []models.ChatMessage) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: set ANTHROPIC_API_KEY to enable the assistant", ErrChatNotConfigured)
	}
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}

	studyContext, err := s.BuildStudyContext(userID)
	if err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Info().Str("user_id", userID).Int("history_turns", len(history)).Msg("Sending chat request upstream")

	reply, err := s.llm.Complete(ctx, systemPrompt(studyContext), history, message)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return reply, nil
}

// BuildStudyContext renders the user's statistics and recent sessions into
// a deterministic text block used to ground the assistant's replies.
func (s *ChatService) BuildStudyContext(userID string) (string, error) {
	sessions, err := s.sessions.ListByUser(userID)
	if err != nil {
		return "", err
	}
	stats := ComputeStats(sessions, models.Today())
	return RenderStudyContext(sessions, stats), nil
}

// RenderStudyContext formats sessions and stats into the context block.
// Sessions are expected newest-first.
func RenderStudyContext(sessions []models.Session, stats models.UserStats) string {
	if len(sessions) == 0 {
		return "The user has no study sessions recorded yet."
	}

	var b strings.Builder

	b.WriteString("## User's Study Statistics\n")
	fmt.Fprintf(&b, "- Total study sessions: %d\n", stats.TotalSessions)
	fmt.Fprintf(&b, "- Total study time: %.1f hours (%d minutes)\n", stats.TotalHours, stats.TotalMinutes)
	fmt.Fprintf(&b, "- Sessions this week: %d\n", stats.SessionsThisWeek)
	fmt.Fprintf(&b, "- Current study streak: %d days\n", stats.StudyStreak)

	if len(stats.SessionsBySubject) > 0 {
		b.WriteString("\n## Study Time by Subject\n")
		for _, subj := range stats.SessionsBySubject {
			fmt.Fprintf(&b, "- %s: %d sessions, %.1f hours (%d minutes)\n",
				subj.Subject, subj.TotalSessions, RoundHours(subj.TotalMinutes), subj.TotalMinutes)
		}
	}

	recent := sessions
	if len(recent) > chatContextSessions {
		recent = recent[:chatContextSessions]
	}
	b.WriteString("\n## Recent Study Sessions\n")
	for _, session := range recent {
		notesPreview := ""
		if session.Notes != nil && *session.Notes != "" {
			notesPreview = " - Notes: " + truncate(*session.Notes, chatNotesPreview)
		}
		fmt.Fprintf(&b, "- %s: %s (%d min)%s\n",
			session.SessionDate, session.Subject, session.DurationMinutes, notesPreview)
	}

	subjects := make([]string, 0, len(stats.SessionsBySubject))
	for _, subj := range stats.SessionsBySubject {
		subjects = append(subjects, subj.Subject)
	}
	sort.Strings(subjects)
	b.WriteString("\n## All Subjects Studied\n")
	fmt.Fprintf(&b, "Subjects: %s", strings.Join(subjects, ", "))

	return b.String()
}

func systemPrompt(studyContext string) string {
	return `You are a helpful study assistant for the Studyflow app.
You help users understand their study patterns, provide encouragement, and give actionable advice.

Here is the user's study data that you can reference when answering their questions:

` + studyContext + `

Guidelines:
- Be encouraging and supportive
- Give specific, actionable advice based on their actual data
- If they ask about data you don't have, let them know
- Keep responses concise but helpful
- Use the actual numbers and subjects from their data when relevant
- If they haven't studied much, be encouraging rather than critical`
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// anthropicCompleter calls the Anthropic Messages API.
type anthropicCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropicCompleter(cfg ChatConfig) *anthropicCompleter {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &anthropicCompleter{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends the conversation to the Messages API and returns the
// concatenated text blocks of the reply.
func (c *anthropicCompleter) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error) {
	msgs := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case "assistant":
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(message)))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  msgs,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
