package services

import (
	"sort"

	"github.com/studyflow/studyflow-be/internal/models"
)

// recentSessionCount is how many sessions the stats view includes verbatim.
const recentSessionCount = 5

// ComputeStats derives the statistics view from a user's sessions. It never
// fails: an empty list yields all-zero stats with an empty subject breakdown.
// The input slice is not mutated.
func ComputeStats(sessions []models.Session, today models.Date) models.UserStats {
	stats := models.UserStats{
		SessionsBySubject: []models.SubjectStats{},
		RecentSessions:    []models.Session{},
	}
	if len(sessions) == 0 {
		return stats
	}

	sorted := make([]models.Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].SessionDate.Equal(sorted[j].SessionDate.Time) {
			return sorted[i].SessionDate.After(sorted[j].SessionDate.Time)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	bySubject := make(map[string]*models.SubjectStats)
	for _, s := range sorted {
		stats.TotalSessions++
		stats.TotalMinutes += s.DurationMinutes

		// Trailing 7 calendar days, today inclusive.
		if d := today.DaysSince(s.SessionDate); d >= 0 && d < 7 {
			stats.SessionsThisWeek++
		}

		agg, ok := bySubject[s.Subject]
		if !ok {
			agg = &models.SubjectStats{Subject: s.Subject}
			bySubject[s.Subject] = agg
		}
		agg.TotalSessions++
		agg.TotalMinutes += s.DurationMinutes
	}

	stats.TotalHours = RoundHours(stats.TotalMinutes)
	stats.StudyStreak = StudyStreak(sessionDates(sorted), today)

	for _, agg := range bySubject {
		stats.SessionsBySubject = append(stats.SessionsBySubject, *agg)
	}
	sort.Slice(stats.SessionsBySubject, func(i, j int) bool {
		a, b := stats.SessionsBySubject[i], stats.SessionsBySubject[j]
		if a.TotalSessions != b.TotalSessions {
			return a.TotalSessions > b.TotalSessions
		}
		return a.Subject < b.Subject
	})

	n := recentSessionCount
	if len(sorted) < n {
		n = len(sorted)
	}
	stats.RecentSessions = sorted[:n]

	return stats
}

// StudyStreak returns the length of the consecutive-day run ending at the
// most recent session date. The streak is alive only if that date is today
// or yesterday; any older gap resets it to zero. A single session today or
// yesterday counts as a streak of 1.
func StudyStreak(dates []models.Date, today models.Date) int {
	if len(dates) == 0 {
		return 0
	}

	distinct := distinctDatesDesc(dates)

	// The run only counts when it ends today or yesterday; a most recent
	// date in the future or older than yesterday kills the streak.
	if d := today.DaysSince(distinct[0]); d != 0 && d != 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(distinct); i++ {
		if distinct[i-1].DaysSince(distinct[i]) == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

// RoundHours converts minutes to hours rounded to one decimal place.
func RoundHours(minutes int) float64 {
	return round1(float64(minutes) / 60)
}

func sessionDates(sessions []models.Session) []models.Date {
	dates := make([]models.Date, 0, len(sessions))
	for _, s := range sessions {
		dates = append(dates, s.SessionDate)
	}
	return dates
}

// distinctDatesDesc deduplicates and sorts dates newest-first.
func distinctDatesDesc(dates []models.Date) []models.Date {
	seen := make(map[string]bool, len(dates))
	distinct := make([]models.Date, 0, len(dates))
	for _, d := range dates {
		key := d.String()
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, d)
		}
	}
	sort.Slice(distinct, func(i, j int) bool {
		return distinct[i].After(distinct[j].Time)
	})
	return distinct
}
