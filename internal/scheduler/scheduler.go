// Package scheduler wires up the cron job that periodically runs the
// full scrape-match-notify cycle.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc is one scheduled cycle. Errors are logged, never fatal; the
// next tick always fires.
type RunFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron around a single recurring run.
type Scheduler struct {
	cron *cron.Cron
	spec string
	run  RunFunc
}

// New creates a Scheduler that fires every interval.
func New(interval time.Duration, run RunFunc) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		spec: fmt.Sprintf("@every %s", interval),
		run:  run,
	}
}

// Start registers the job and starts the scheduler. Also fires one run
// immediately so the first results do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] cron started, spec: %s", s.spec)

	go s.runOnce(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] cron stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log.Println("[scheduler] cycle started")
	if err := s.run(ctx); err != nil {
		log.Printf("[scheduler] cycle failed: %v", err)
		return
	}
	log.Println("[scheduler] cycle complete")
}
