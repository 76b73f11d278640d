package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/models"
	"github.com/studyflow/studyflow-be/internal/services"
)

// ReminderChecker periodically finds users with no session logged today and
// broadcasts a "reminder.due" event. Delivery of actual reminder emails is
// owned by an external automation workflow polling the reminder endpoint;
// this loop gives connected clients and the logs the same signal.
type ReminderChecker struct {
	users    services.UserServiceProvider
	hub      services.EventBroadcaster
	schedule cron.Schedule
	done     chan bool
}

// NewReminderChecker parses the standard cron expression and creates the
// checker. An invalid expression is an error surfaced at startup.
func NewReminderChecker(users services.UserServiceProvider, hub services.EventBroadcaster, cronExpr string) (*ReminderChecker, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &ReminderChecker{
		users:    users,
		hub:      hub,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run waits for each scheduled firing and performs the reminder check.
func (rc *ReminderChecker) Run() {
	log.Info().Msg("Starting background reminder checker...")
	for {
		next := rc.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-rc.done:
			timer.Stop()
			log.Info().Msg("Stopping background reminder checker.")
			return
		case <-timer.C:
			rc.check()
		}
	}
}

// Stop halts the checker.
func (rc *ReminderChecker) Stop() {
	rc.done <- true
}

func (rc *ReminderChecker) check() {
	today := models.Today()
	users, err := rc.users.UsersWithoutSessionOn(today)
	if err != nil {
		log.Error().Err(err).Msg("ReminderChecker: Failed to query users without sessions")
		return
	}

	log.Info().Str("date", today.String()).Int("count", len(users)).Msg("Users without a session today")

	if rc.hub != nil && len(users) > 0 {
		rc.hub.BroadcastEvent("reminder.due", models.UsersWithoutSessions{
			Date:  today.String(),
			Count: len(users),
			Users: users,
		})
	}
}
