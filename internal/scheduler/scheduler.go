package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/baublesbot/baubles/internal/store"
)

// Scheduler periodically logs store row counts for operational visibility.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *store.Store
	interval  time.Duration
}

// New creates a new Scheduler.
func New(st *store.Store, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     st,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		counts, err := s.store.Counts()
		if err != nil {
			log.Printf("scheduler: stats job failed: %v", err)
			return
		}
		log.Printf("scheduler: store stats: users=%d coords=%d urls=%d attachments=%d",
			counts["users"], counts["coords"], counts["urls"], counts["attachments"])
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
