package execution

import (
	"context"
	"sync"
	"time"

	"nbgrade/internal/config"
	"nbgrade/internal/domain"
	"nbgrade/internal/ui"
)

// WorkerPool grades submissions in parallel, each worker working through its
// own shard
type WorkerPool struct {
	config    *config.Config
	runner    *Runner
	scheduler Scheduler
	progress  *ui.ProgressBar
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, scheduler Scheduler) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute grades every submission. When ctx is cancelled the submissions not
// yet started are returned with the context error and Execute returns it too.
func (wp *WorkerPool) Execute(ctx context.Context, submissions []string) ([]domain.BatchResult, time.Duration, error) {
	if len(submissions) == 0 {
		return nil, 0, nil
	}

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(submissions) {
		workerCount = len(submissions)
	}

	results := make([]domain.BatchResult, len(submissions))
	shards := wp.scheduler.Schedule(submissions, workerCount)

	var mu sync.Mutex
	var graded, fullMarks, errored int
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, shard := range shards {
		wg.Add(1)
		go func(workerID int, shard []int) {
			defer wg.Done()
			for _, idx := range shard {
				if err := ctx.Err(); err != nil {
					results[idx] = domain.BatchResult{Submission: submissions[idx], Err: err}
					continue
				}
				result := wp.runner.Run(ctx, submissions[idx], workerID)
				results[idx] = result

				mu.Lock()
				graded++
				switch {
				case result.Err != nil || result.Run.Feedback.IsError:
					errored++
				case result.Run.Feedback.Score >= 1:
					fullMarks++
				}
				if wp.progress != nil {
					wp.progress.Update(graded, fullMarks, errored)
				}
				mu.Unlock()
			}
		}(i+1, shard)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}
	return results, time.Since(startTime), ctx.Err()
}
