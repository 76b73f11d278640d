package models

// DailyTotal is one day's worth of study within a trend window.
type DailyTotal struct {
	Date     Date `json:"date"`
	Sessions int  `json:"sessions"`
	Minutes  int  `json:"minutes"`
}

// WeekdayPattern aggregates sessions by day of week within a trend window.
type WeekdayPattern struct {
	Day          string  `json:"day"`
	Sessions     int     `json:"sessions"`
	TotalMinutes int     `json:"total_minutes"`
	AvgDuration  float64 `json:"avg_duration"`
}

// StudyTrends summarizes a user's study activity over a trailing window.
type StudyTrends struct {
	PeriodDays             int              `json:"period_days"`
	TotalSessions          int              `json:"total_sessions"`
	TotalMinutes           int              `json:"total_minutes"`
	TotalHours             float64          `json:"total_hours"`
	DaysStudied            int              `json:"days_studied"`
	DailyAverageMinutes    float64          `json:"daily_average_minutes"`
	StudyDayAverageMinutes float64          `json:"study_day_average_minutes"`
	CurrentStreakDays      int              `json:"current_streak_days"`
	Trend                  string           `json:"trend"`
	BestDayOfWeek          *WeekdayPattern  `json:"best_day_of_week"`
	WeeklyPattern          []WeekdayPattern `json:"weekly_pattern"`
	DailyBreakdown         []DailyTotal     `json:"daily_breakdown"`
}

// SubjectActivity describes one subject's lifetime footprint and recency.
type SubjectActivity struct {
	Subject            string  `json:"subject"`
	TotalSessions      int     `json:"total_sessions"`
	TotalHours         float64 `json:"total_hours"`
	LastStudied        Date    `json:"last_studied"`
	DaysSinceLastStudy int     `json:"days_since_last_study"`
}

// NeglectedSubjects splits a user's subjects into those touched within the
// analysis window and those not.
type NeglectedSubjects struct {
	NeglectedSubjects  []SubjectActivity `json:"neglected_subjects"`
	ActiveSubjects     []SubjectActivity `json:"active_subjects"`
	AnalysisPeriodDays int               `json:"analysis_period_days"`
	TotalSubjects      int               `json:"total_subjects"`
}
