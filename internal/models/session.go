package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for session dates.
// Session dates are calendar days with no time component.
const DateLayout = "2006-01-02"

// Date is a calendar date (no time of day, no timezone beyond UTC).
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar day.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	t := d.Time.AddDate(0, 0, n)
	return Date{t}
}

// DaysSince returns the number of whole days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time).Hours() / 24)
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses "YYYY-MM-DD", rejecting anything else.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return fmt.Errorf("invalid session date: empty")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid session date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// Value stores the date as its string form.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads the date back from TEXT or TIME columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		t, err := time.ParseInLocation(DateLayout, v, time.UTC)
		if err != nil {
			return fmt.Errorf("scan session date %q: %w", v, err)
		}
		d.Time = t
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	default:
		return fmt.Errorf("scan session date: unsupported type %T", src)
	}
}

// Session is a logged record of studying one subject for a duration on a date.
type Session struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
	SessionDate     Date      `json:"session_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionCreate is the payload for creating a session.
type SessionCreate struct {
	Subject         string  `json:"subject"`
	DurationMinutes int     `json:"duration_minutes"`
	Notes           *string `json:"notes"`
	SessionDate     *Date   `json:"session_date"`
}

// SessionUpdate carries a partial update; nil fields are left unchanged.
type SessionUpdate struct {
	Subject         *string `json:"subject"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
	SessionDate     *Date   `json:"session_date"`
}
