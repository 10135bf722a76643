package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nbgrade/internal/domain"
)

// DefaultBatchFile is written next to the last-run file by SaveBatch.
const DefaultBatchFile = "batch-results.json"

// Save writes run to the configured JSON output file.
func (s *JSONStorage) Save(run *domain.GradingRun) error {
	return writeJSON(s.cfg.GetOutputPath(), run)
}

// Load reads the last run from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.GradingRun, error) {
	data, err := os.ReadFile(s.cfg.GetOutputPath())
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var run domain.GradingRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &run, nil
}

// SaveBatch writes the summary and every run of a batch.
func (s *JSONStorage) SaveBatch(results []domain.BatchResult, assignment, partID string, duration time.Duration, workers int) (*domain.BatchOutput, error) {
	output := domain.BatchOutput{
		Meta: domain.BatchSummary{
			Assignment:      assignment,
			PartID:          partID,
			Submissions:     len(results),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
	}

	var total float64
	for _, r := range results {
		entry := domain.BatchEntry{Submission: r.Submission, Run: r.Run}
		switch {
		case r.Err != nil:
			output.Meta.Errored++
			entry.Error = r.Err.Error()
		case r.Run != nil:
			if r.Run.Feedback.IsError {
				output.Meta.Errored++
			}
			if r.Run.Feedback.Score >= 1 {
				output.Meta.FullMarks++
			}
			total += r.Run.Feedback.Score
		}
		output.Entries = append(output.Entries, entry)
	}
	if len(results) > 0 {
		output.Meta.MeanScore = total / float64(len(results))
	}

	path := filepath.Join(filepath.Dir(s.cfg.GetOutputPath()), DefaultBatchFile)
	if err := writeJSON(path, output); err != nil {
		return nil, err
	}
	return &output, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
