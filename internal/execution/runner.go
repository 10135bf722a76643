package execution

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nbgrade/internal/domain"
)

// Grader grades a single submission notebook
type Grader interface {
	GradeSubmission(ctx context.Context, path string) (*domain.GradingRun, error)
}

// Runner grades one submission on behalf of a worker
type Runner struct {
	grader Grader
	logger *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(grader Grader, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{grader: grader, logger: logger}
}

// Run grades path. A panic escaping the grader is reported as the result's error.
func (r *Runner) Run(ctx context.Context, path string, workerID int) (result domain.BatchResult) {
	result.Submission = path
	defer func() {
		if p := recover(); p != nil {
			result.Run = nil
			result.Err = fmt.Errorf("grading %s panicked: %v", path, p)
		}
		if result.Err != nil {
			r.logger.Warn("submission not graded",
				zap.Int("worker", workerID),
				zap.String("submission", path),
				zap.Error(result.Err))
		}
	}()

	run, err := r.grader.GradeSubmission(ctx, path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Run = run
	r.logger.Debug("submission graded",
		zap.Int("worker", workerID),
		zap.String("submission", path),
		zap.Float64("score", run.Feedback.Score))
	return result
}
