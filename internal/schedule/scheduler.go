package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"ai-tutoring-be/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Job is a unit of periodic background work.
type Job interface {
	Name() string
	Spec() string
	Run(ctx context.Context) error
}

// Scheduler drives registered jobs on cron specs. A job still running
// when its next tick arrives is skipped, not stacked.
type Scheduler struct {
	cron   *cron.Cron
	logger logger.ILogger
}

func NewScheduler(log logger.ILogger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: log,
	}
}

func (s *Scheduler) Register(job Job) error {
	var running atomic.Bool
	_, err := s.cron.AddFunc(job.Spec(), func() {
		if !running.CompareAndSwap(false, true) {
			s.logger.Warn("schedule", "Job still running, skipping tick", map[string]interface{}{
				"job": job.Name(),
			})
			return
		}
		defer running.Store(false)

		start := time.Now()
		if err := job.Run(context.Background()); err != nil {
			s.logger.Error("schedule", "Job failed", map[string]interface{}{
				"job":   job.Name(),
				"error": err,
			})
			return
		}
		s.logger.Debug("schedule", "Job finished", map[string]interface{}{
			"job":      job.Name(),
			"duration": time.Since(start).String(),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("schedule", "Job registered", map[string]interface{}{
		"job":  job.Name(),
		"spec": job.Spec(),
	})
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs to drain.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
