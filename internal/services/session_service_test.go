package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-be/internal/models"
)

func newTestUserAndService(t *testing.T) (models.User, *SessionService) {
	t.Helper()
	db := newTestDB(t)
	user, err := NewUserService(db).Register("a@x.com")
	require.NoError(t, err)
	return user, NewSessionService(db, nil)
}

func TestSessionService_CreateAndList(t *testing.T) {
	user, svc := newTestUserAndService(t)

	date := models.NewDate(2026, time.August, 30)
	created, err := svc.Create(user.ID, models.SessionCreate{
		Subject:         "Math",
		DurationMinutes: 60,
		Notes:           strPtr("chapter 4"),
		SessionDate:     &date,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, "Math", created.Subject)
	assert.Equal(t, 60, created.DurationMinutes)
	assert.Equal(t, "2026-08-30", created.SessionDate.String())
	assert.False(t, created.CreatedAt.IsZero())

	sessions, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, created.ID, sessions[0].ID)
	require.NotNil(t, sessions[0].Notes)
	assert.Equal(t, "chapter 4", *sessions[0].Notes)
}

func TestSessionService_CreateDefaultsToToday(t *testing.T) {
	user, svc := newTestUserAndService(t)

	created, err := svc.Create(user.ID, models.SessionCreate{Subject: "Math", DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, models.Today().String(), created.SessionDate.String())
}

func TestSessionService_CreateRejectsInvalidInput(t *testing.T) {
	user, svc := newTestUserAndService(t)

	tests := []struct {
		name  string
		input models.SessionCreate
	}{
		{"empty subject", models.SessionCreate{Subject: "", DurationMinutes: 30}},
		{"subject too long", models.SessionCreate{Subject: strings.Repeat("x", 101), DurationMinutes: 30}},
		{"zero duration", models.SessionCreate{Subject: "Math", DurationMinutes: 0}},
		{"negative duration", models.SessionCreate{Subject: "Math", DurationMinutes: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(user.ID, tt.input)
			assert.ErrorIs(t, err, ErrValidation)

			// Nothing may be persisted for a rejected payload.
			sessions, err := svc.ListByUser(user.ID)
			require.NoError(t, err)
			assert.Empty(t, sessions)
		})
	}
}

func TestSessionService_ListOrdersNewestFirst(t *testing.T) {
	user, svc := newTestUserAndService(t)

	old := models.NewDate(2026, time.August, 1)
	recent := models.NewDate(2026, time.August, 20)
	for _, d := range []models.Date{old, recent} {
		date := d
		_, err := svc.Create(user.ID, models.SessionCreate{Subject: "Math", DurationMinutes: 30, SessionDate: &date})
		require.NoError(t, err)
	}

	sessions, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, recent.String(), sessions[0].SessionDate.String())
	assert.Equal(t, old.String(), sessions[1].SessionDate.String())
}

func TestSessionService_UpdatePartial(t *testing.T) {
	user, svc := newTestUserAndService(t)

	date := models.NewDate(2026, time.August, 30)
	created, err := svc.Create(user.ID, models.SessionCreate{
		Subject:         "Math",
		DurationMinutes: 60,
		SessionDate:     &date,
	})
	require.NoError(t, err)

	// Updating only the subject leaves duration and date unchanged.
	updated, err := svc.Update(created.ID, models.SessionUpdate{Subject: strPtr("Physics")})
	require.NoError(t, err)
	assert.Equal(t, "Physics", updated.Subject)
	assert.Equal(t, 60, updated.DurationMinutes)
	assert.Equal(t, "2026-08-30", updated.SessionDate.String())

	updated, err = svc.Update(created.ID, models.SessionUpdate{DurationMinutes: intPtr(90)})
	require.NoError(t, err)
	assert.Equal(t, "Physics", updated.Subject)
	assert.Equal(t, 90, updated.DurationMinutes)
}

func TestSessionService_UpdateValidatesFields(t *testing.T) {
	user, svc := newTestUserAndService(t)

	created, err := svc.Create(user.ID, models.SessionCreate{Subject: "Math", DurationMinutes: 60})
	require.NoError(t, err)

	_, err = svc.Update(created.ID, models.SessionUpdate{DurationMinutes: intPtr(0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(created.ID, models.SessionUpdate{Subject: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)

	// The rejected updates must not have been applied.
	got, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", got.Subject)
	assert.Equal(t, 60, got.DurationMinutes)
}

func TestSessionService_UpdateUnknownIDNotFound(t *testing.T) {
	_, svc := newTestUserAndService(t)

	_, err := svc.Update("missing", models.SessionUpdate{Subject: strPtr("Math")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionService_DeleteTwice(t *testing.T) {
	user, svc := newTestUserAndService(t)

	created, err := svc.Create(user.ID, models.SessionCreate{Subject: "Math", DurationMinutes: 60})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	err = svc.Delete(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionService_StatsEndToEnd(t *testing.T) {
	user, svc := newTestUserAndService(t)

	today := models.Today()
	_, err := svc.Create(user.ID, models.SessionCreate{
		Subject:         "Math",
		DurationMinutes: 60,
		SessionDate:     &today,
	})
	require.NoError(t, err)

	stats, err := svc.StatsForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 60, stats.TotalMinutes)
	assert.Equal(t, 1.0, stats.TotalHours)
	assert.Equal(t, 1, stats.SessionsThisWeek)
	assert.Equal(t, 1, stats.StudyStreak)
	require.Len(t, stats.SessionsBySubject, 1)
	assert.Equal(t, "Math", stats.SessionsBySubject[0].Subject)
}

type recordingBroadcaster struct {
	actions []string
}

func (r *recordingBroadcaster) BroadcastEvent(action string, _ any) {
	r.actions = append(r.actions, action)
}

func TestSessionService_BroadcastsMutations(t *testing.T) {
	db := newTestDB(t)
	user, err := NewUserService(db).Register("a@x.com")
	require.NoError(t, err)

	hub := &recordingBroadcaster{}
	svc := NewSessionService(db, hub)

	created, err := svc.Create(user.ID, models.SessionCreate{Subject: "Math", DurationMinutes: 60})
	require.NoError(t, err)
	_, err = svc.Update(created.ID, models.SessionUpdate{Subject: strPtr("Physics")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(created.ID))

	assert.Equal(t, []string{"session.created", "session.updated", "session.deleted"}, hub.actions)
}
