package models

import "time"

// User represents a registered account. Authentication is email-only:
// no password or token is ever stored or issued.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
