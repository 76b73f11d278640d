package monitoring

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/studyflow/studyflow-be/internal/services"
)

// SystemStats is the periodic sample broadcast to connected clients.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	TotalUsers    int     `json:"total_users"`
	TotalSessions int     `json:"total_sessions"`
	SampledAt     string  `json:"sampled_at"`
}

// StatUpdater periodically samples host load and row counts and broadcasts
// them as "system.stats" events.
type StatUpdater struct {
	db       *sql.DB
	hub      services.EventBroadcaster
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(db *sql.DB, hub services.EventBroadcaster, interval time.Duration) *StatUpdater {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatUpdater{
		db:       db,
		hub:      hub,
		interval: interval,
		done:     make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Dur("interval", su.interval).Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(su.interval)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sample()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.done <- true
}

func (su *StatUpdater) sample() {
	stats := SystemStats{SampledAt: time.Now().UTC().Format(time.RFC3339)}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		stats.CPUPercent = percentages[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: Failed to sample CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("StatUpdater: Failed to sample memory usage")
	}

	if err := su.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers); err != nil {
		log.Error().Err(err).Msg("StatUpdater: Failed to count users")
		return
	}
	if err := su.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions); err != nil {
		log.Error().Err(err).Msg("StatUpdater: Failed to count sessions")
		return
	}

	log.Info().
		Float64("cpu_percent", stats.CPUPercent).
		Float64("memory_percent", stats.MemoryPercent).
		Int("total_users", stats.TotalUsers).
		Int("total_sessions", stats.TotalSessions).
		Msg("System stats sampled")

	if su.hub != nil {
		su.hub.BroadcastEvent("system.stats", stats)
	}
}
