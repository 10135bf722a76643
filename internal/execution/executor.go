package execution

import (
	"context"
	"time"

	"nbgrade/internal/domain"
)

// Executor grades submissions and returns one result per submission, in input order
type Executor interface {
	Execute(ctx context.Context, submissions []string) ([]domain.BatchResult, time.Duration, error)
}
