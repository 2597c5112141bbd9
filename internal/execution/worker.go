package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tat/internal/config"
	"tat/internal/domain"
	"tat/internal/ui"
)

// WorkerPool runs jobs over one surface per worker
type WorkerPool struct {
	config    *config.Config
	runner    *Runner
	scheduler Scheduler
	open      SurfaceFactory
	progress  *ui.ProgressBar
	logger    *zap.Logger

	// closed when nothing reads results anymore
	consumerStopped <-chan struct{}
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, scheduler Scheduler, open SurfaceFactory, logger *zap.Logger) *WorkerPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		open:      open,
		logger:    logger,
	}
}

// SetConsumerStopped sets a channel that is closed once the results consumer has
// stopped reading. Without it, sends wait for the consumer.
func (wp *WorkerPool) SetConsumerStopped(stopped <-chan struct{}) {
	wp.consumerStopped = stopped
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs every job (no fail-fast). results is closed on return.
func (wp *WorkerPool) Execute(ctx context.Context, jobs []Job, results chan<- domain.Result) (time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, jobs, false, results)
}

// ExecuteWithOptions runs jobs, optionally stopping after the first failure.
// In-flight jobs always finish; with fail-fast no new job starts once a failure is seen.
// results is closed on return.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, jobs []Job, failFast bool, results chan<- domain.Result) (time.Duration, error) {
	defer close(results)
	if len(jobs) == 0 {
		return 0, nil
	}

	startTime := time.Now()
	lanes := wp.scheduler.Schedule(jobs, wp.config.GetWorkers())

	g, gctx := errgroup.WithContext(ctx)
	stopCtx, stop := context.WithCancel(gctx)
	defer stop()

	var mu sync.Mutex
	var passed, failed int

	for i, lane := range lanes {
		if len(lane) == 0 {
			continue
		}
		workerID := i + 1
		g.Go(func() error {
			s, release, err := wp.open(gctx, workerID)
			if err != nil {
				return fmt.Errorf("worker %d: open surface: %w", workerID, err)
			}
			defer release()

			for _, job := range lane {
				if stopCtx.Err() != nil {
					return nil
				}

				result := wp.runJob(gctx, s, job, workerID)

				// A finished job is always delivered, even after cancellation.
				// Its owner reports the failure of a stopped consumer.
				select {
				case results <- result:
				case <-wp.consumerStopped:
					return nil
				}

				mu.Lock()
				if result.Passed() {
					passed++
				} else {
					failed++
				}
				if wp.progress != nil {
					wp.progress.Update(passed, failed)
				}
				mu.Unlock()

				if failFast && !result.Passed() {
					stop()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if wp.progress != nil {
		wp.progress.Finish()
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return time.Since(startTime), err
}

func (wp *WorkerPool) runJob(ctx context.Context, s Surface, job Job, workerID int) domain.Result {
	log := wp.logger.With(zap.String("job", job.Title), zap.Int("worker", workerID))

	result := job.run(ctx, wp.runner, s)
	result.Worker = workerID

	if result.Passed() {
		log.Debug("job passed", zap.Duration("duration", result.Duration))
	} else {
		log.Debug("job failed", zap.Duration("duration", result.Duration), zap.Error(result.Err))
	}
	return result
}
