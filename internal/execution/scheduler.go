package execution

// Scheduler distributes submissions across workers
type Scheduler interface {
	// Schedule returns, per worker, the indexes of the submissions it grades.
	Schedule(submissions []string, workerCount int) [][]int
}

// RoundRobinScheduler distributes submissions evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule deals submission indexes to workers in turn
func (s *RoundRobinScheduler) Schedule(submissions []string, workerCount int) [][]int {
	if workerCount <= 0 {
		workerCount = 1
	}

	shards := make([][]int, workerCount)
	for i := range submissions {
		w := i % workerCount
		shards[w] = append(shards[w], i)
	}
	return shards
}
