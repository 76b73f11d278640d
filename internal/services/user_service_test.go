package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-be/internal/models"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)

	got, err := svc.Login("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserService_RegisterDuplicateEmailConflicts(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("a@x.com")
	require.NoError(t, err)

	_, err = svc.Register("a@x.com")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_EmailIsCaseInsensitive(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("User@Example.com")
	require.NoError(t, err)

	_, err = svc.Register("user@example.com")
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.Login("USER@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
}

func TestUserService_ConcurrentDuplicateInsertIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register("a@x.com")
	require.NoError(t, err)

	// A racing registration passes the existence check and fails on the
	// UNIQUE index; that failure must map to the conflict sentinel.
	_, err = db.Exec("INSERT INTO users(id, email, created_at, updated_at) VALUES(?, ?, ?, ?)",
		"another-id", user.Email, user.CreatedAt, user.UpdatedAt)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(assert.AnError))
}

func TestUserService_LoginUnknownEmailNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Login("nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_RegisterRejectsMalformedEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	for _, email := range []string{"", "not-an-email", "@x.com"} {
		_, err := svc.Register(email)
		assert.ErrorIs(t, err, ErrValidation, "email %q", email)
	}
}

func TestUserService_UsersWithoutSessionOn(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	sessions := NewSessionService(db, nil)

	studied, err := users.Register("studied@x.com")
	require.NoError(t, err)
	idle, err := users.Register("idle@x.com")
	require.NoError(t, err)

	today := models.Today()
	_, err = sessions.Create(studied.ID, models.SessionCreate{
		Subject:         "Math",
		DurationMinutes: 60,
		SessionDate:     &today,
	})
	require.NoError(t, err)

	reminders, err := users.UsersWithoutSessionOn(today)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, idle.ID, reminders[0].UserID)
	assert.Equal(t, "idle@x.com", reminders[0].Email)
}
