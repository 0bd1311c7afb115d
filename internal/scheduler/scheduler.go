package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/pkg/jobs"
)

const generateJob = "generate_notifications"

type notificationGenerator interface {
	Generate(ctx context.Context) (*dto.GenerateNotificationsResult, error)
}

// Scheduler triggers notification generation on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewScheduler validates the cron expression and prepares the worker queue.
func NewScheduler(schedule string, generator notificationGenerator, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		return nil, errors.New("notification generator is required")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse notification schedule %q: %w", schedule, err)
	}

	queue := jobs.NewQueue("notifications", func(ctx context.Context, _ jobs.Job) error {
		result, err := generator.Generate(ctx)
		if err != nil {
			return err
		}
		logger.Info("scheduled notifications generated", zap.Int("count", result.Generated))
		return nil
	}, jobs.QueueConfig{Workers: 1, BufferSize: 1, Timeout: 2 * time.Minute, Logger: logger})

	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		queue:    queue,
		logger:   logger,
	}, nil
}

// Start registers the generation job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.queue.Start(ctx)
	if _, err := s.cron.AddFunc(s.schedule, s.Trigger); err != nil {
		s.queue.Stop()
		return fmt.Errorf("schedule notifications: %w", err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Trigger enqueues a generation run unless one is already pending.
func (s *Scheduler) Trigger() {
	err := s.queue.Enqueue(jobs.Job{Type: generateJob})
	switch {
	case err == nil:
	case errors.Is(err, jobs.ErrDuplicate):
		s.logger.Debug("notification generation already pending")
	default:
		s.logger.Warn("failed to enqueue notification generation", zap.Error(err))
	}
}

// Stop waits for running cron jobs, then drains the worker queue.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	s.queue.Stop()
}
