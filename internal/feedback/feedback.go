// Package feedback delivers the final score and message of a grading run.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nbgrade/internal/domain"
)

// Sender delivers feedback to the learner.
type Sender interface {
	Send(fb domain.Feedback) error
}

// FileSender writes feedback as JSON to a file, replacing earlier content.
type FileSender struct {
	path string
}

// NewFileSender returns a Sender writing to path.
func NewFileSender(path string) *FileSender {
	return &FileSender{path: path}
}

// Path returns the destination file.
func (s *FileSender) Path() string {
	return s.path
}

// Send implements Sender.
func (s *FileSender) Send(fb domain.Feedback) error {
	data, err := json.MarshalIndent(fb, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create feedback dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write feedback: %w", err)
	}
	return nil
}

// Discard drops feedback; batch runs use it.
var Discard Sender = discard{}

type discard struct{}

func (discard) Send(domain.Feedback) error { return nil }
