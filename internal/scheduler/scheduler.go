// Package scheduler runs the polling jobs of the watch mode on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/p10-paddock/internal/logger"
	"github.com/yourusername/p10-paddock/internal/metrics"
)

var (
	// ErrRunning is returned when jobs are changed while the scheduler runs
	ErrRunning = errors.New("scheduler is running")
	// ErrNoJobs is returned by Start when nothing is scheduled
	ErrNoJobs = errors.New("no jobs scheduled")
)

// JobFunc is one polling job. The context is cancelled after the job timeout.
type JobFunc func(ctx context.Context) error

// Scheduler manages scheduled polling jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          map[string]cron.EntryID
	gracefulTimeout time.Duration
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLocation evaluates schedules in loc
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.cron = cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	}
}

// WithGracefulTimeout bounds how long Stop waits for running jobs
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.gracefulTimeout = d
	}
}

// NewScheduler creates a new scheduler
func NewScheduler(log *logrus.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.Silent()
	}
	s := &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:          log.WithField("component", "scheduler"),
		jobIDs:          make(map[string]cron.EntryID),
		gracefulTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob schedules fn under name. Each run gets a context bounded by timeout and is
// recorded in the watch metrics. A run still in progress when the next one is due is
// skipped.
func (s *Scheduler) AddJob(name, spec string, timeout time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule %s: %w", name, ErrRunning)
	}
	if _, exists := s.jobIDs[name]; exists {
		return fmt.Errorf("job %s is already scheduled", name)
	}

	entryID, err := s.cron.AddFunc(spec, func() { s.run(name, timeout, fn) })
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs[name] = entryID
	s.logger.WithFields(logrus.Fields{"job": name, "schedule": spec}).Debug("Scheduled job")
	return nil
}

// RunNow runs a scheduled job once, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	entryID, ok := s.jobIDs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s is not scheduled", name)
	}

	entry := s.cron.Entry(entryID)
	if !entry.Valid() {
		return fmt.Errorf("job %s is not scheduled", name)
	}
	entry.Job.Run()
	return nil
}

func (s *Scheduler) run(name string, timeout time.Duration, fn JobFunc) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	status := "success"
	entry := s.logger.WithFields(logrus.Fields{"job": name, "duration_ms": elapsed.Milliseconds()})
	if err != nil {
		status = "error"
		entry.WithError(err).Warn("Polling job failed")
	} else {
		entry.Debug("Polling job completed")
	}
	metrics.RecordWatchPoll(name, status, elapsed.Seconds())
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return ErrNoJobs
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs, at most the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}

// Jobs returns the names of the scheduled jobs
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobIDs))
	for name := range s.jobIDs {
		names = append(names, name)
	}
	return names
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove %s: %w", name, ErrRunning)
	}
	entryID, ok := s.jobIDs[name]
	if !ok {
		return nil
	}

	s.cron.Remove(entryID)
	delete(s.jobIDs, name)
	s.logger.WithField("job", name).Debug("Removed job")
	return nil
}
