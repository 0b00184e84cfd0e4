package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs jobs on fixed intervals. A job that is still running when
// its next tick fires skips that tick.
type Scheduler struct {
	cron   *cron.Cron
	logger logger.LoggerInterface
	ctx    context.Context
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log logger.LoggerInterface) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: log,
		ctx:    context.Background(),
	}
}

// Start starts the scheduler. Jobs run with ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info(ctx, "scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	<-done.Done()
	s.logger.Info(context.Background(), "scheduler stopped")
}

// AddJob registers job to run every interval.
func (s *Scheduler) AddJob(interval time.Duration, job Job) error {
	if interval <= 0 {
		return apperror.New(apperror.CodeSchedulerJobInvalid,
			apperror.WithContext(fmt.Sprintf("%s: interval %s", job.Name(), interval)))
	}

	spec := "@every " + interval.String()
	_, err := s.cron.AddFunc(spec, func() {
		s.run(s.ctx, job)
	})
	if err != nil {
		return apperror.New(apperror.CodeSchedulerJobInvalid,
			apperror.WithCause(err),
			apperror.WithContext(job.Name()))
	}

	s.logger.Info(context.Background(), "job registered", "job", job.Name(), "schedule", spec)
	return nil
}

// RunNow executes job immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	s.logger.Info(ctx, "running job immediately", "job", job.Name())
	return job.Run(ctx)
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	s.logger.Debug(ctx, "running job", "job", job.Name())

	if err := job.Run(ctx); err != nil {
		s.logger.Error(ctx, "job failed", "job", job.Name(), "error", err)
		return
	}
	s.logger.Debug(ctx, "job completed", "job", job.Name())
}

// cronLogger adapts LoggerInterface to cron.Logger.
type cronLogger struct {
	log logger.LoggerInterface
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
