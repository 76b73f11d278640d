package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-be/internal/models"
)

type stubCompleter struct {
	reply  string
	err    error
	system string
	turns  []models.ChatMessage
	last   string
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error) {
	s.system = systemPrompt
	s.turns = history
	s.last = message
	return s.reply, s.err
}

type stubSessionLister struct {
	SessionServiceProvider
	sessions []models.Session
	err      error
}

func (s *stubSessionLister) ListByUser(string) ([]models.Session, error) {
	return s.sessions, s.err
}

func TestRenderStudyContext_NoSessions(t *testing.T) {
	got := RenderStudyContext(nil, ComputeStats(nil, models.Today()))
	assert.Equal(t, "The user has no study sessions recorded yet.", got)
}

func TestRenderStudyContext_Format(t *testing.T) {
	today := models.NewDate(2026, time.August, 31)
	sessions := []models.Session{
		session("Math", 60, today),
		session("Physics", 30, today.AddDays(-1)),
	}
	sessions[0].Notes = strPtr("integration by parts")

	got := RenderStudyContext(sessions, ComputeStats(sessions, today))

	assert.Contains(t, got, "## User's Study Statistics")
	assert.Contains(t, got, "- Total study sessions: 2")
	assert.Contains(t, got, "- Total study time: 1.5 hours (90 minutes)")
	assert.Contains(t, got, "- Current study streak: 2 days")
	assert.Contains(t, got, "## Study Time by Subject")
	assert.Contains(t, got, "- Math: 1 sessions, 1.0 hours (60 minutes)")
	assert.Contains(t, got, "## Recent Study Sessions")
	assert.Contains(t, got, "- 2026-08-31: Math (60 min) - Notes: integration by parts")
	assert.Contains(t, got, "Subjects: Math, Physics")
}

func TestRenderStudyContext_IsDeterministic(t *testing.T) {
	today := models.NewDate(2026, time.August, 31)
	sessions := []models.Session{
		session("Chemistry", 20, today),
		session("Biology", 40, today),
		session("Algebra", 60, today.AddDays(-1)),
	}
	stats := ComputeStats(sessions, today)

	first := RenderStudyContext(sessions, stats)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RenderStudyContext(sessions, ComputeStats(sessions, today)))
	}
}

func TestRenderStudyContext_BoundsRecentSessionsAndNotes(t *testing.T) {
	today := models.NewDate(2026, time.August, 31)
	var sessions []models.Session
	for i := 0; i < 15; i++ {
		s := session("Math", 30, today.AddDays(-i))
		s.Notes = strPtr(strings.Repeat("n", 500))
		sessions = append(sessions, s)
	}

	got := RenderStudyContext(sessions, ComputeStats(sessions, today))

	assert.Equal(t, 10, strings.Count(got, "(30 min)"))
	assert.Contains(t, got, strings.Repeat("n", 100)+"...")
	assert.NotContains(t, got, strings.Repeat("n", 101))
}

func TestChatService_NotConfigured(t *testing.T) {
	svc := NewChatService(&stubSessionLister{}, ChatConfig{})

	_, err := svc.Chat(context.Background(), "user-1", "hello", nil)
	assert.ErrorIs(t, err, ErrChatNotConfigured)
}

func TestChatService_EmptyMessageRejected(t *testing.T) {
	svc := NewChatServiceWithCompleter(&stubSessionLister{}, &stubCompleter{}, time.Second)

	_, err := svc.Chat(context.Background(), "user-1", "   ", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChatService_RelaysReplyVerbatim(t *testing.T) {
	today := models.Today()
	lister := &stubSessionLister{sessions: []models.Session{session("Math", 60, today)}}
	completer := &stubCompleter{reply: "Keep it up!"}
	svc := NewChatServiceWithCompleter(lister, completer, time.Second)

	history := []models.ChatMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}
	reply, err := svc.Chat(context.Background(), "user-1", "How am I doing?", history)
	require.NoError(t, err)
	assert.Equal(t, "Keep it up!", reply)

	// The upstream call carries the grounded system prompt, the rolling
	// history and the new message.
	assert.Contains(t, completer.system, "Total study sessions: 1")
	assert.Equal(t, history, completer.turns)
	assert.Equal(t, "How am I doing?", completer.last)
}

func TestChatService_UpstreamFailure(t *testing.T) {
	completer := &stubCompleter{err: errors.New("api timeout")}
	svc := NewChatServiceWithCompleter(&stubSessionLister{}, completer, time.Second)

	_, err := svc.Chat(context.Background(), "user-1", "hello", nil)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "api timeout")
}
