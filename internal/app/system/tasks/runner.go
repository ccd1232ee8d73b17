// internal/app/system/tasks/runner.go

// Package tasks runs periodic maintenance jobs against the database.
package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thedevbrian/folio/internal/app/system/metrics"
	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("tasks: unknown job")

// Job is a function run every Interval, and once at Start.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner owns one goroutine per registered job.
type Runner struct {
	log    *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.Mutex
	active map[string]bool
}

// New returns an idle Runner.
func New(log *zap.Logger) *Runner {
	return &Runner{log: log, active: make(map[string]bool)}
}

// Register adds a job. Jobs registered after Start are not scheduled.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start schedules every registered job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
	r.log.Info("task runner started", zap.Int("jobs", len(r.jobs)))
}

// Stop cancels the jobs and waits for them until ctx is done. Jobs that
// ignore cancellation are reported by name.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		r.log.Warn("task runner stop timed out", zap.Strings("running", r.running()))
		return ctx.Err()
	}
}

// RunOnce runs a registered job now, outside its schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return r.exec(ctx, job)
		}
	}
	return ErrUnknownJob
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()
	_ = r.exec(ctx, job)

	t := time.NewTicker(job.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = r.exec(ctx, job)
		}
	}
}

func (r *Runner) exec(ctx context.Context, job Job) error {
	r.setActive(job.Name, true)
	defer r.setActive(job.Name, false)

	start := time.Now()
	err := job.Run(ctx)
	switch {
	case err == nil:
		metrics.ObserveJob(job.Name, nil)
		r.log.Debug("job done", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
	case ctx.Err() != nil:
		r.log.Debug("job cancelled", zap.String("job", job.Name))
	default:
		metrics.ObserveJob(job.Name, err)
		r.log.Error("job failed", zap.String("job", job.Name), zap.Duration("took", time.Since(start)), zap.Error(err))
	}
	return err
}

func (r *Runner) setActive(name string, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on {
		r.active[name] = true
	} else {
		delete(r.active, name)
	}
}

func (r *Runner) running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.active))
	for n := range r.active {
		names = append(names, n)
	}
	return names
}
