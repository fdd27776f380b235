package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"franchiseops/internal/metrics"
	"franchiseops/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every runs fn on each tick until the runner's context is done.
// A non-positive interval disables the job.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	if interval <= 0 {
		r.log.Info("job disabled", zap.String("job", name))
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.Run(name, fn)
			}
		}
	}()
}

// Run executes fn once, recording metrics and recovering panics.
func (r *Runner) Run(name string, fn Job) {
	start := time.Now()
	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic in %s job: %v", name, rec)
			}
		}()
		return fn(r.ctx)
	}()

	metrics.JobRuns.WithLabelValues(name).Inc()
	metrics.JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.JobErrors.WithLabelValues(name).Inc()
		observability.CaptureJob(name, err)
		r.log.Error("job failed", zap.String("job", name), zap.Error(err))
	}
}
