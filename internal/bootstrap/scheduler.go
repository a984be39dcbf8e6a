package bootstrap

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/logging"
)

const pruneSchedule = "0 */10 * * * *"

// Scheduler drops per-user caches nobody has touched for a while so the
// process does not grow with every user it has ever served.
type Scheduler struct {
	cron *cron.Cron
	app  *App
	idle time.Duration
	log  zerolog.Logger
}

func NewScheduler(app *App, idle time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		app:  app,
		idle: idle,
		log:  logging.Component(log, "scheduler"),
	}
}

// Start registers the prune job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(pruneSchedule, func() { s.Prune() }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", pruneSchedule).Dur("idle", s.idle).Msg("cache prune scheduled")
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Prune runs one pass and reports how many entries were dropped.
func (s *Scheduler) Prune() int {
	profiles := s.app.Profiles.Prune(s.idle)
	projects := s.app.Projects.Prune(s.idle)
	limiters := 0
	if s.app.RateLimiter != nil {
		limiters = s.app.RateLimiter.Prune(s.idle)
	}

	s.log.Debug().
		Int("profiles", profiles).
		Int("projects", projects).
		Int("rate_limiters", limiters).
		Msg("pruned idle caches")
	return profiles + projects + limiters
}
