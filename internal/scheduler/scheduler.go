package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Job is a periodic unit of work
type Job interface {
	Run(now time.Time) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	interval  time.Duration
	logger    gokitlog.Logger
}

// New creates a scheduler running job every interval
func New(job Job, interval time.Duration, logger gokitlog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		job:       job,
		interval:  interval,
		logger:    logger,
	}
}

// Start begins running all scheduled tasks without blocking
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid scheduler interval %s", s.interval)
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.runJob); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	level.Info(s.logger).Log("msg", "scheduler started", "interval", s.interval)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runJob() {
	start := time.Now()
	if err := s.job.Run(start.UTC()); err != nil {
		level.Error(s.logger).Log("msg", "scheduled job failed", "err", err, "took", time.Since(start))
		return
	}
	level.Debug(s.logger).Log("msg", "scheduled job completed", "took", time.Since(start))
}
