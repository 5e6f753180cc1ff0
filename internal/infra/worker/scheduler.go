package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a cron schedule until its context is cancelled.
type Scheduler struct {
	name    string
	cfg     RefreshConfig
	job     Job
	logger  *slog.Logger
	metrics *Metrics
	cron    *cron.Cron
}

// NewScheduler creates a scheduler for job. cfg must be valid.
func NewScheduler(name string, cfg RefreshConfig, job Job, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	s := &Scheduler{
		name:    name,
		cfg:     cfg,
		job:     job,
		logger:  logger,
		metrics: defaultMetrics,
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	return s, nil
}

// Start schedules the job and returns immediately.
// The scheduler stops when ctx is cancelled; Stop waits for a running job.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("scheduled job started",
		slog.String("job", s.name),
		slog.String("schedule", s.cfg.Schedule),
		slog.String("timezone", s.cfg.Timezone))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce runs the job immediately with the configured timeout.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := s.job(ctx)
	elapsed := time.Since(start)
	s.metrics.RecordRun(s.name, err, elapsed.Seconds())

	if err != nil {
		s.logger.Error("scheduled job failed",
			slog.String("job", s.name),
			slog.Duration("duration", elapsed),
			slog.Any("error", err))
		return
	}
	s.logger.Debug("scheduled job completed",
		slog.String("job", s.name),
		slog.Duration("duration", elapsed))
}
