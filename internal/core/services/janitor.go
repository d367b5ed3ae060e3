package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionEvicter drops idle sessions.
type SessionEvicter interface {
	EvictIdle(before time.Time) int
}

// TaskPruner drops finished verification tasks.
type TaskPruner interface {
	Prune(before time.Time) int
}

// Janitor periodically frees state nobody will ask for again.
type Janitor struct {
	cron     *cron.Cron
	sessions SessionEvicter
	tasks    TaskPruner
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewJanitor schedules a sweep on schedule (a cron expression or "@every 10m").
func NewJanitor(
	schedule string,
	ttl time.Duration,
	sessions SessionEvicter,
	tasks TaskPruner,
	baseLogger *zerolog.Logger,
) (*Janitor, error) {
	j := &Janitor{
		cron:     cron.New(),
		sessions: sessions,
		tasks:    tasks,
		ttl:      ttl,
		now:      time.Now,
		log:      baseLogger.With().Str("component", "janitor").Logger(),
	}
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the schedule in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	j.log.Info().Dur("ttl", j.ttl).Msg("Janitor started")
}

// Stop halts the schedule and waits for a running sweep.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info().Msg("Janitor stopped")
}

// Sweep evicts everything older than the TTL.
func (j *Janitor) Sweep() {
	cutoff := j.now().Add(-j.ttl)
	sessions := j.sessions.EvictIdle(cutoff)
	tasks := 0
	if j.tasks != nil {
		tasks = j.tasks.Prune(cutoff)
	}
	j.log.Debug().Int("sessions", sessions).Int("tasks", tasks).Time("cutoff", cutoff).Msg("Sweep done")
}
