package services

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	Register(email string) (models.User, error)
	Login(email string) (models.User, error)
	UsersWithoutSessionOn(day models.Date) ([]models.UserReminder, error)
}

// UserService provides business logic for user accounts. Authentication is
// email-only: Register and Login only prove that an email exists, which is
// a deliberate non-boundary in this system.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, case-insensitively.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, created_at, updated_at FROM users WHERE email = ?", normalizeEmail(email))
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: no user with email %s", ErrNotFound, email)
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new user for the given email. It fails with ErrConflict
// when the email is already taken.
func (s *UserService) Register(email string) (models.User, error) {
	normalized := normalizeEmail(email)
	if err := validateEmail(normalized); err != nil {
		return models.User{}, err
	}

	if _, err := s.GetUserByEmail(normalized); err == nil {
		log.Warn().Str("email", normalized).Msg("Registration rejected, email already exists")
		return models.User{}, fmt.Errorf("%w: a user with this email already exists", ErrConflict)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Email:     normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, created_at, updated_at) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Email, user.CreatedAt, user.UpdatedAt); err != nil {
		// A concurrent registration can slip past the existence check and
		// land on the UNIQUE index instead.
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: a user with this email already exists", ErrConflict)
		}
		return models.User{}, err
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

// Login returns the user for the given email. No credential beyond the
// email itself is checked and no token is issued.
func (s *UserService) Login(email string) (models.User, error) {
	normalized := normalizeEmail(email)
	if err := validateEmail(normalized); err != nil {
		return models.User{}, err
	}

	user, err := s.GetUserByEmail(normalized)
	if err != nil {
		return models.User{}, err
	}

	log.Info().Str("user_id", user.ID).Msg("Login successful")
	return user, nil
}

// UsersWithoutSessionOn lists users with no session dated on the given day,
// used by the reminder endpoint and the background reminder check.
func (s *UserService) UsersWithoutSessionOn(day models.Date) ([]models.UserReminder, error) {
	rows, err := s.db.Query(`
		SELECT id, email FROM users
		WHERE id NOT IN (SELECT DISTINCT user_id FROM sessions WHERE session_date = ?)
		ORDER BY email`, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserReminder{}
	for rows.Next() {
		var u models.UserReminder
		if err := rows.Scan(&u.UserID, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	return nil
}
