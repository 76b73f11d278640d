package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
)

const maxSubjectLength = 100

// EventBroadcaster pushes study events to connected clients. The websocket
// hub satisfies this; a nil broadcaster disables broadcasting.
type EventBroadcaster interface {
	BroadcastEvent(action string, payload any)
}

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	ListByUser(userID string) ([]models.Session, error)
	GetByID(id string) (models.Session, error)
	Create(userID string, input models.SessionCreate) (models.Session, error)
	Update(id string, input models.SessionUpdate) (models.Session, error)
	Delete(id string) error
	StatsForUser(userID string) (models.UserStats, error)
}

// SessionService provides business logic for study session CRUD and the
// derived statistics view.
type SessionService struct {
	db  *sql.DB
	hub EventBroadcaster
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB, hub EventBroadcaster) *SessionService {
	return &SessionService{db: db, hub: hub}
}

// ListByUser returns all of a user's sessions, newest first.
func (s *SessionService) ListByUser(userID string) ([]models.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, subject, duration_minutes, notes, session_date, created_at, updated_at
		FROM sessions WHERE user_id = ?
		ORDER BY session_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetByID retrieves a single session.
func (s *SessionService) GetByID(id string) (models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, subject, duration_minutes, notes, session_date, created_at, updated_at
		FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, fmt.Errorf("%w: session %s", ErrNotFound, id)
		}
		return models.Session{}, err
	}
	return session, nil
}

// Create validates and persists a new session for the given user.
// Validation failures are rejected before any write.
func (s *SessionService) Create(userID string, input models.SessionCreate) (models.Session, error) {
	date := models.Today()
	if input.SessionDate != nil {
		date = *input.SessionDate
	}

	if err := validateSubject(input.Subject); err != nil {
		return models.Session{}, err
	}
	if err := validateDuration(input.DurationMinutes); err != nil {
		return models.Session{}, err
	}

	now := time.Now().UTC()
	session := models.Session{
		ID:              uuid.New().String(),
		UserID:          userID,
		Subject:         input.Subject,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		SessionDate:     date,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO sessions(id, user_id, subject, duration_minutes, notes, session_date, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Session{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(session.ID, session.UserID, session.Subject, session.DurationMinutes,
		session.Notes, session.SessionDate.String(), session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return models.Session{}, err
	}

	log.Info().Str("session_id", session.ID).Str("user_id", userID).Msg("Session created")
	s.broadcast("session.created", session)
	return session, nil
}

// Update applies a partial update to a session. Fields absent from the
// payload keep their current values. The session is resolved by id alone;
// there is no ownership check against the calling user.
func (s *SessionService) Update(id string, input models.SessionUpdate) (models.Session, error) {
	session, err := s.GetByID(id)
	if err != nil {
		return models.Session{}, err
	}

	if input.Subject != nil {
		if err := validateSubject(*input.Subject); err != nil {
			return models.Session{}, err
		}
		session.Subject = *input.Subject
	}
	if input.DurationMinutes != nil {
		if err := validateDuration(*input.DurationMinutes); err != nil {
			return models.Session{}, err
		}
		session.DurationMinutes = *input.DurationMinutes
	}
	if input.Notes != nil {
		session.Notes = input.Notes
	}
	if input.SessionDate != nil {
		session.SessionDate = *input.SessionDate
	}
	session.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE sessions SET subject = ?, duration_minutes = ?, notes = ?, session_date = ?, updated_at = ?
		WHERE id = ?`,
		session.Subject, session.DurationMinutes, session.Notes,
		session.SessionDate.String(), session.UpdatedAt, id)
	if err != nil {
		return models.Session{}, err
	}

	log.Info().Str("session_id", id).Msg("Session updated")
	s.broadcast("session.updated", session)
	return session, nil
}

// Delete removes a session. Deleting an absent session is ErrNotFound, so a
// second delete of the same id fails.
func (s *SessionService) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", ErrNotFound, id)
	}

	log.Info().Str("session_id", id).Msg("Session deleted")
	s.broadcast("session.deleted", map[string]string{"id": id})
	return nil
}

// StatsForUser recomputes the derived statistics view from the user's
// current sessions.
func (s *SessionService) StatsForUser(userID string) (models.UserStats, error) {
	sessions, err := s.ListByUser(userID)
	if err != nil {
		return models.UserStats{}, err
	}
	return ComputeStats(sessions, models.Today()), nil
}

func (s *SessionService) broadcast(action string, payload any) {
	if s.hub != nil {
		s.hub.BroadcastEvent(action, payload)
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.Session, error) {
	var session models.Session
	err := row.Scan(&session.ID, &session.UserID, &session.Subject, &session.DurationMinutes,
		&session.Notes, &session.SessionDate, &session.CreatedAt, &session.UpdatedAt)
	return session, err
}

func validateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if len(subject) > maxSubjectLength {
		return fmt.Errorf("%w: subject must be at most %d characters", ErrValidation, maxSubjectLength)
	}
	return nil
}

func validateDuration(minutes int) error {
	if minutes < 1 {
		return fmt.Errorf("%w: duration_minutes must be a positive integer", ErrValidation)
	}
	return nil
}
