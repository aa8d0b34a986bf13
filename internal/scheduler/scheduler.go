package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/datasource"
	"github.com/yourusername/regulation-radar/internal/service"
)

// Scheduler manages the background refresh jobs: the daily team-cache
// warm-up and the periodic slate recompute.
type Scheduler struct {
	cron     *cron.Cron
	analyzer *service.Analyzer
	stats    datasource.StatsSource
	logger   *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(analyzer *service.Analyzer, stats datasource.StatsSource, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		analyzer: analyzer,
		stats:    stats,
		logger:   logger,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// ScheduleTeamRefresh schedules the daily team metadata refresh.
func (s *Scheduler) ScheduleTeamRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.stats.Teams(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled team refresh failed")
			return
		}
		s.logger.Info("Team metadata refreshed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled team refresh job")

	return nil
}

// ScheduleSlateRefresh schedules the periodic slate recompute for the
// current date. onSlate runs after every successful recompute; the
// server uses it to notify websocket subscribers.
func (s *Scheduler) ScheduleSlateRefresh(intervalSeconds int, opts service.SlateOptions, onSlate func(*service.Slate)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 60 {
		intervalSeconds = 60
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		date := time.Now().UTC().Truncate(24 * time.Hour)
		slate, err := s.analyzer.Slate(ctx, date, opts)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled slate recompute failed")
			return
		}
		if onSlate != nil {
			onSlate(slate)
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled slate refresh job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
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

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
