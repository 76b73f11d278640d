package services

import (
	"math"
	"sort"

	"github.com/studyflow/studyflow-be/internal/models"
)

// Default analysis windows, in days.
const (
	DefaultTrendDays     = 30
	DefaultNeglectedDays = 14
)

// InsightServiceProvider defines the interface for study pattern analysis.
type InsightServiceProvider interface {
	TrendsForUser(userID string, days int) (models.StudyTrends, error)
	NeglectedForUser(userID string, days int) (models.NeglectedSubjects, error)
}

// InsightService derives study pattern analyses from a user's sessions.
type InsightService struct {
	sessions SessionServiceProvider
}

// NewInsightService creates a new InsightService.
func NewInsightService(sessions SessionServiceProvider) *InsightService {
	return &InsightService{sessions: sessions}
}

// TrendsForUser analyzes study activity over the trailing window.
func (s *InsightService) TrendsForUser(userID string, days int) (models.StudyTrends, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	sessions, err := s.sessions.ListByUser(userID)
	if err != nil {
		return models.StudyTrends{}, err
	}
	return ComputeTrends(sessions, models.Today(), days), nil
}

// NeglectedForUser splits the user's subjects into recently-active and
// neglected sets.
func (s *InsightService) NeglectedForUser(userID string, days int) (models.NeglectedSubjects, error) {
	if days <= 0 {
		days = DefaultNeglectedDays
	}
	sessions, err := s.sessions.ListByUser(userID)
	if err != nil {
		return models.NeglectedSubjects{}, err
	}
	return ComputeNeglected(sessions, models.Today(), days), nil
}

// ComputeTrends aggregates daily and weekday patterns over the trailing
// window of the given length and labels the trajectory by comparing the
// first and second half of the studied days. Pure; input is not mutated.
func ComputeTrends(sessions []models.Session, today models.Date, days int) models.StudyTrends {
	trends := models.StudyTrends{
		PeriodDays:     days,
		Trend:          "insufficient data",
		WeeklyPattern:  []models.WeekdayPattern{},
		DailyBreakdown: []models.DailyTotal{},
	}

	cutoff := today.AddDays(-days)

	daily := make(map[string]*models.DailyTotal)
	type weekdayAgg struct {
		sessions int
		minutes  int
	}
	byWeekday := make(map[int]*weekdayAgg)
	dates := []models.Date{}

	for _, s := range sessions {
		if s.SessionDate.Before(cutoff.Time) {
			continue
		}
		trends.TotalSessions++
		trends.TotalMinutes += s.DurationMinutes

		key := s.SessionDate.String()
		day, ok := daily[key]
		if !ok {
			day = &models.DailyTotal{Date: s.SessionDate}
			daily[key] = day
			dates = append(dates, s.SessionDate)
		}
		day.Sessions++
		day.Minutes += s.DurationMinutes

		dow := int(s.SessionDate.Weekday())
		agg, ok := byWeekday[dow]
		if !ok {
			agg = &weekdayAgg{}
			byWeekday[dow] = agg
		}
		agg.sessions++
		agg.minutes += s.DurationMinutes
	}

	if trends.TotalSessions == 0 {
		return trends
	}

	trends.TotalHours = RoundHours(trends.TotalMinutes)
	trends.DaysStudied = len(daily)
	trends.DailyAverageMinutes = round1(float64(trends.TotalMinutes) / float64(days))
	trends.StudyDayAverageMinutes = round1(float64(trends.TotalMinutes) / float64(trends.DaysStudied))
	trends.CurrentStreakDays = StudyStreak(dates, today)

	for _, day := range daily {
		trends.DailyBreakdown = append(trends.DailyBreakdown, *day)
	}
	sort.Slice(trends.DailyBreakdown, func(i, j int) bool {
		return trends.DailyBreakdown[i].Date.Before(trends.DailyBreakdown[j].Date.Time)
	})

	for dow, agg := range byWeekday {
		trends.WeeklyPattern = append(trends.WeeklyPattern, models.WeekdayPattern{
			Day:          weekdayName(dow),
			Sessions:     agg.sessions,
			TotalMinutes: agg.minutes,
			AvgDuration:  round1(float64(agg.minutes) / float64(agg.sessions)),
		})
	}
	sort.Slice(trends.WeeklyPattern, func(i, j int) bool {
		a, b := trends.WeeklyPattern[i], trends.WeeklyPattern[j]
		if a.Sessions != b.Sessions {
			return a.Sessions > b.Sessions
		}
		return a.Day < b.Day
	})
	if len(trends.WeeklyPattern) > 0 {
		best := trends.WeeklyPattern[0]
		trends.BestDayOfWeek = &best
	}

	trends.Trend = trajectory(trends.DailyBreakdown)

	return trends
}

// trajectory compares average minutes in the first and second half of the
// studied days: above +10% is "increasing", below -10% "decreasing".
func trajectory(daily []models.DailyTotal) string {
	mid := len(daily) / 2
	if mid == 0 {
		return "insufficient data"
	}

	var first, second float64
	for i, day := range daily {
		if i < mid {
			first += float64(day.Minutes)
		} else {
			second += float64(day.Minutes)
		}
	}
	firstAvg := first / float64(mid)
	secondAvg := second / float64(len(daily)-mid)

	switch {
	case secondAvg > firstAvg*1.1:
		return "increasing"
	case secondAvg < firstAvg*0.9:
		return "decreasing"
	default:
		return "stable"
	}
}

// ComputeNeglected partitions subjects by whether they were studied within
// the trailing window. Pure; input is not mutated.
func ComputeNeglected(sessions []models.Session, today models.Date, days int) models.NeglectedSubjects {
	result := models.NeglectedSubjects{
		NeglectedSubjects:  []models.SubjectActivity{},
		ActiveSubjects:     []models.SubjectActivity{},
		AnalysisPeriodDays: days,
	}

	type subjectAgg struct {
		sessions int
		minutes  int
		last     models.Date
	}
	bySubject := make(map[string]*subjectAgg)

	for _, s := range sessions {
		agg, ok := bySubject[s.Subject]
		if !ok {
			agg = &subjectAgg{last: s.SessionDate}
			bySubject[s.Subject] = agg
		}
		agg.sessions++
		agg.minutes += s.DurationMinutes
		if s.SessionDate.After(agg.last.Time) {
			agg.last = s.SessionDate
		}
	}

	result.TotalSubjects = len(bySubject)
	cutoff := today.AddDays(-days)

	for subject, agg := range bySubject {
		activity := models.SubjectActivity{
			Subject:            subject,
			TotalSessions:      agg.sessions,
			TotalHours:         RoundHours(agg.minutes),
			LastStudied:        agg.last,
			DaysSinceLastStudy: today.DaysSince(agg.last),
		}
		if agg.last.Before(cutoff.Time) {
			result.NeglectedSubjects = append(result.NeglectedSubjects, activity)
		} else {
			result.ActiveSubjects = append(result.ActiveSubjects, activity)
		}
	}

	bySessionsDesc := func(list []models.SubjectActivity) func(i, j int) bool {
		return func(i, j int) bool {
			if list[i].TotalSessions != list[j].TotalSessions {
				return list[i].TotalSessions > list[j].TotalSessions
			}
			return list[i].Subject < list[j].Subject
		}
	}
	sort.Slice(result.NeglectedSubjects, bySessionsDesc(result.NeglectedSubjects))
	sort.Slice(result.ActiveSubjects, bySessionsDesc(result.ActiveSubjects))

	return result
}

func weekdayName(dow int) string {
	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if dow < 0 || dow >= len(names) {
		return "Unknown"
	}
	return names[dow]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
