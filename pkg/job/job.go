package job

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

type job struct {
	name  string
	every time.Duration
	run   func(ctx context.Context) error
}

// Runner executes registered jobs on fixed intervals until the context is
// canceled. Each job runs once immediately on start.
type Runner struct {
	jobs []job
	wg   sync.WaitGroup
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds a job when enabled is true; disabled jobs are skipped so
// call sites can chain straight from config flags.
func (r *Runner) Register(enabled bool, name string, every time.Duration, run func(ctx context.Context) error) *Runner {
	if !enabled {
		return r
	}

	r.jobs = append(r.jobs, job{name: name, every: every, run: run})

	return r
}

func (r *Runner) Start(ctx context.Context) {
	for _, j := range r.jobs {
		j := j

		r.wg.Add(1)

		go func() {
			defer r.wg.Done()
			r.loop(ctx, j)
		}()
	}
}

func (r *Runner) loop(ctx context.Context, j job) {
	l := slog.Default().With("job", j.name)

	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	for {
		if err := r.runOnce(ctx, j); err != nil {
			l.Error("job failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, j job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job panic", "job", j.name, "error", rec, "stack", string(debug.Stack()))
		}
	}()

	return j.run(ctx)
}

// Stop blocks until all job loops have exited.
func (r *Runner) Stop() {
	r.wg.Wait()
}
