package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/jobs/runtime"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type Options struct {
	Concurrency  int
	PollInterval time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
	StaleRunning time.Duration
}

// OptionsFromEnv reads WORKER_* overrides on top of the defaults.
func OptionsFromEnv() Options {
	return Options{
		Concurrency:  envutil.Int("WORKER_CONCURRENCY", 4),
		PollInterval: envutil.Duration("WORKER_POLL_INTERVAL", time.Second),
		MaxAttempts:  envutil.Int("WORKER_MAX_ATTEMPTS", 5),
		RetryDelay:   envutil.Duration("WORKER_RETRY_DELAY", 30*time.Second),
		StaleRunning: envutil.Duration("WORKER_STALE_RUNNING", 30*time.Minute),
	}
}

func (o Options) normalized() Options {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	if o.StaleRunning <= 0 {
		o.StaleRunning = 30 * time.Minute
	}
	return o
}

type Worker struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.JobRunRepo
	registry *runtime.Registry
	opts     Options
	wg       sync.WaitGroup
}

func NewWorker(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo, registry *runtime.Registry, opts Options) *Worker {
	return &Worker{
		db:       db,
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		registry: registry,
		opts:     opts.normalized(),
	}
}

// Start launches the pool. Loops exit when ctx is canceled; Wait blocks until they have.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Starting job worker pool", "concurrency", w.opts.Concurrency, "job_types", w.registry.Types())
	for i := 0; i < w.opts.Concurrency; i++ {
		workerID := i + 1
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runLoop(ctx, workerID)
		}()
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			// Drain the queue before waiting for the next tick.
			for ctx.Err() == nil && w.RunOnce(ctx, workerID) {
			}
		}
	}
}

// RunOnce claims and executes at most one job. It reports whether a job was claimed.
func (w *Worker) RunOnce(ctx context.Context, workerID int) bool {
	job, err := w.repo.ClaimNextRunnable(dbctx.Of(ctx), w.opts.MaxAttempts, w.opts.RetryDelay, w.opts.StaleRunning)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn("ClaimNextRunnable failed", "worker_id", workerID, "error", err)
		}
		return false
	}
	if job == nil {
		return false
	}

	start := time.Now()
	jc := runtime.NewContext(ctx, w.db, job, w.repo)
	defer func() {
		observability.Current().ObserveJob(job.JobType, jc.Job.Status, time.Since(start))
	}()

	h, ok := w.registry.Get(job.JobType)
	if !ok {
		w.log.Warn("No handler registered for job_type",
			"worker_id", workerID,
			"job_type", job.JobType,
			"job_id", job.ID,
		)
		jc.Fail("dispatch", &missingHandlerError{JobType: job.JobType})
		return true
	}

	stopBeat := w.heartbeat(jc)
	defer stopBeat()

	func() {
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("Job handler panic",
					"worker_id", workerID,
					"job_id", job.ID,
					"job_type", job.JobType,
					"panic", r,
				)
				jc.Fail("panic", errFromRecover(r))
			}
		}()

		if runErr := h.Run(jc); runErr != nil {
			// Handlers normally call jc.Fail themselves.
			jc.Fail("run", runErr)
		}
	}()

	if jc.Job.Status == types.JobStatusRunning {
		// A handler that returned without reaching a terminal state is retried.
		jc.Fail("run", fmt.Errorf("handler returned without finishing job"))
	}
	w.log.Info("Job finished",
		"worker_id", workerID,
		"job_id", job.ID,
		"job_type", job.JobType,
		"status", jc.Job.Status,
		"attempt", job.Attempts,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return true
}

// heartbeat keeps heartbeat_at fresh while a handler runs.
func (w *Worker) heartbeat(jc *runtime.Context) func() {
	every := w.opts.StaleRunning / 3
	if every <= 0 {
		every = time.Minute
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-jc.Ctx.Done():
				return
			case <-t.C:
				if err := jc.Heartbeat(); err != nil {
					w.log.Debug("Heartbeat failed", "job_id", jc.Job.ID, "error", err)
				}
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

func errFromRecover(v any) error { return &panicError{Val: v} }

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
