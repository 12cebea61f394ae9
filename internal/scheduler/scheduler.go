// Package scheduler triggers pipeline runs on a fixed interval, plus
// once at startup.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/brandsnobs/deals-backend/internal/models"
)

// runTimeout bounds a single scheduled run. Well above the worst-case
// batch schedule for the full catalog.
const runTimeout = 15 * time.Minute

// Runner is the pipeline entry point the scheduler drives.
type Runner interface {
	RunOnce(ctx context.Context) (*models.RunSummary, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
}

func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
	}
}

// Start runs the pipeline once immediately, then on every interval
// tick until the context is cancelled. A failed run is logged and the
// scheduler stays alive for the next tick; it never takes the process
// down.
func (s *Scheduler) Start(ctx context.Context) error {
	slog.Info("Scheduler started", "interval", s.interval)

	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	summary, err := s.runner.RunOnce(runCtx)
	if err != nil {
		slog.Error("Scheduled run failed", "error", err)
		return
	}
	slog.Info("Scheduled run complete",
		"totalDeals", summary.TotalDeals,
		"successfulBrands", summary.SuccessfulBrands,
		"failedBrands", summary.FailedBrands)
}
