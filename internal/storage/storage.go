package storage

import (
	"errors"

	"nbgrade/internal/config"
	"nbgrade/internal/domain"
)

// Storage persists grading runs and loads the latest one (e.g. for the cases viewer).
type Storage interface {
	Save(run *domain.GradingRun) error
	Load() (*domain.GradingRun, error)
}

// JSONStorage stores runs in JSON files under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Multi saves to every backend and loads from the first that has a run.
type Multi []Storage

// Save implements Storage.
func (m Multi) Save(run *domain.GradingRun) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load implements Storage.
func (m Multi) Load() (*domain.GradingRun, error) {
	var errs []error
	for _, s := range m {
		run, err := s.Load()
		if err == nil {
			return run, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no storage configured")
	}
	return nil, errors.Join(errs...)
}
