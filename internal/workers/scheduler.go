package workers

import (
	"context"
	"time"

	"github.com/studyhall/studyhall-backend/internal/logger"
)

// Scheduler runs a named task on a fixed period. A failing run is logged and
// dropped; the next tick retries from scratch, so a missed leaderboard cycle
// self-heals without any catch-up logic.
type Scheduler struct {
	log      *logger.Logger
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

func NewScheduler(baseLog *logger.Logger, name string, interval time.Duration, fn func(ctx context.Context) error) *Scheduler {
	return &Scheduler{
		log:      baseLog.With("component", "Scheduler", "task", name),
		name:     name,
		interval: interval,
		fn:       fn,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.fn == nil {
		return
	}
	s.log.Info("Starting periodic task", "interval", s.interval.String())
	go s.runLoop(ctx)
}

func (s *Scheduler) runLoop(ctx context.Context) {
	// One run at startup so a fresh deployment has data before the first tick.
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Periodic task stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Periodic task panic", "panic", r)
		}
	}()
	if err := s.fn(ctx); err != nil {
		s.log.Warn("Periodic task failed", "error", err)
	}
}
