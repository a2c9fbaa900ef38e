package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

// Scheduler runs named background jobs on cron specs. A job that panics is
// recovered and a job still running when its next tick arrives is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

func NewScheduler(logger *logger.Logger) *Scheduler {
	cl := cronLogger{log: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

func (s *Scheduler) Schedule(name, spec string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info("Job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop prevents new runs and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Scheduler stopping")
	return s.cron.Stop()
}

type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
