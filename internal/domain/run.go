package domain

import "time"

// Feedback is what the learner receives at the end of a grading run.
type Feedback struct {
	Score   float64 `json:"fractionalScore"`
	Message string  `json:"feedback"`
	IsError bool    `json:"isError,omitempty"`
}

// GradingRun records the outcome of grading one part of one submission.
type GradingRun struct {
	ID         string        `json:"id"`
	Assignment string        `json:"assignment"`
	PartID     string        `json:"part_id"`
	Submission string        `json:"submission"`
	Feedback   Feedback      `json:"result"`
	Cases      []TestCase    `json:"cases"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Passed returns the number of cases that did not fail.
func (r *GradingRun) Passed() int {
	n := 0
	for _, c := range r.Cases {
		if !c.Failed {
			n++
		}
	}
	return n
}

// Failed returns the number of failing cases.
func (r *GradingRun) Failed() int {
	return len(r.Cases) - r.Passed()
}

// BatchResult pairs a submission with the run produced for it, or the error
// that prevented grading.
type BatchResult struct {
	Submission string
	Run        *GradingRun
	Err        error
}

// BatchSummary contains metadata about a batch grading run
type BatchSummary struct {
	Assignment      string  `json:"assignment"`
	PartID          string  `json:"part_id"`
	Submissions     int     `json:"submissions"`
	FullMarks       int     `json:"full_marks"`
	Errored         int     `json:"errored"`
	MeanScore       float64 `json:"mean_score"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// BatchEntry is one graded submission of a batch.
type BatchEntry struct {
	Submission string      `json:"submission"`
	Run        *GradingRun `json:"run,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// BatchOutput is the complete JSON output of a batch run
type BatchOutput struct {
	Meta    BatchSummary `json:"meta"`
	Entries []BatchEntry `json:"entries"`
}
