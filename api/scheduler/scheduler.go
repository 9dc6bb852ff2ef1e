// Package scheduler runs the periodic background jobs of a dashboard
// session: the analytics refresh and the badge reseed poll.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps a cron runner with interval-style registration so
// components can add and remove their own polling jobs.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a new scheduler instance
func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(time.UTC))}
}

// Every registers fn to run on a fixed interval. The returned id can be
// passed to Remove to cancel the job permanently.
func (s *Scheduler) Every(interval time.Duration, fn func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), fn)
	if err != nil {
		zap.S().Errorw("failed to register periodic job", "interval", interval, "error", err)
		return 0, err
	}
	return id, nil
}

// Remove cancels a registered job.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	zap.S().Info("session scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("session scheduler stopped")
}
