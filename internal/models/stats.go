package models

// SubjectStats aggregates the sessions logged for one subject.
type SubjectStats struct {
	Subject       string `json:"subject"`
	TotalSessions int    `json:"total_sessions"`
	TotalMinutes  int    `json:"total_minutes"`
}

// UserStats is the derived statistics view over a user's sessions.
// It is recomputed on demand and never persisted.
type UserStats struct {
	TotalSessions     int            `json:"total_sessions"`
	TotalMinutes      int            `json:"total_minutes"`
	TotalHours        float64        `json:"total_hours"`
	SessionsThisWeek  int            `json:"sessions_this_week"`
	StudyStreak       int            `json:"study_streak"`
	SessionsBySubject []SubjectStats `json:"sessions_by_subject"`
	RecentSessions    []Session      `json:"recent_sessions"`
}
