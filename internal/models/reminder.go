package models

// UserReminder identifies a user due for a study reminder.
type UserReminder struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UsersWithoutSessions is the reminder report for a given day, consumed by
// an external automation workflow.
type UsersWithoutSessions struct {
	Date  string         `json:"date"`
	Count int            `json:"count"`
	Users []UserReminder `json:"users"`
}
