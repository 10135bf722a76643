package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbgrade/internal/config"
	"nbgrade/internal/domain"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.WorkDir = t.TempDir()
	return cfg
}

func sampleRun() *domain.GradingRun {
	return &domain.GradingRun{
		ID:         "7f9c2a52-3d3e-4c1b-9d7e-0a6b2f7d1c11",
		Assignment: "agentic",
		PartID:     "1",
		Submission: "submission.ipynb",
		Feedback:   domain.Feedback{Score: 0.75, Message: "Failed test case: plan should include at least 3 steps."},
		Cases: []domain.TestCase{
			{Message: "returns a list", Want: "[]string", Got: "[]string"},
			{Failed: true, Kind: domain.KindContentViolation, Message: "plan should include at least 3 steps", Want: "len(plan) >= 3", Got: "2"},
		},
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}
}

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := newConfig(t)
	s := NewJSONStorage(cfg)

	run := sampleRun()
	require.NoError(t, s.Save(run))
	assert.FileExists(t, filepath.Join(cfg.WorkDir, "storage", "last-run.json"))

	loaded, err := s.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(run, loaded); diff != "" {
		t.Errorf("loaded run mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	_, err := NewJSONStorage(newConfig(t)).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestJSONStorage_SaveBatch(t *testing.T) {
	cfg := newConfig(t)
	s := NewJSONStorage(cfg)

	full := sampleRun()
	full.Feedback = domain.Feedback{Score: 1, Message: "All tests passed! Congratulations!"}
	broken := sampleRun()
	broken.Feedback = domain.Feedback{Score: 0, Message: "Unable to find object required for grading in your code.\n", IsError: true}

	out, err := s.SaveBatch([]domain.BatchResult{
		{Submission: "a.ipynb", Run: full},
		{Submission: "b.ipynb", Run: sampleRun()},
		{Submission: "c.ipynb", Run: broken},
		{Submission: "d.ipynb", Err: errors.New("read notebook: permission denied")},
	}, "agentic", "1", 2*time.Second, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, out.Meta.Submissions)
	assert.Equal(t, 1, out.Meta.FullMarks)
	assert.Equal(t, 2, out.Meta.Errored)
	assert.InDelta(t, 0.4375, out.Meta.MeanScore, 1e-9)
	assert.Equal(t, 3, out.Meta.Workers)
	assert.Equal(t, "read notebook: permission denied", out.Entries[3].Error)
	assert.FileExists(t, filepath.Join(cfg.WorkDir, "storage", DefaultBatchFile))
}

type failingStorage struct{ err error }

func (f failingStorage) Save(*domain.GradingRun) error      { return f.err }
func (f failingStorage) Load() (*domain.GradingRun, error) { return nil, f.err }

func TestMulti(t *testing.T) {
	down := failingStorage{err: errors.New("database is down")}
	js := NewJSONStorage(newConfig(t))
	m := Multi{down, js}

	err := m.Save(sampleRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is down")

	loaded, err := m.Load()
	require.NoError(t, err, "load falls through to the JSON file")
	assert.Equal(t, "agentic", loaded.Assignment)

	_, err = Multi{}.Load()
	assert.Error(t, err)
}

func TestMySQLConfig(t *testing.T) {
	cfg, err := mysqlConfig("grader:secret@tcp(127.0.0.1:3306)/nbgrade")
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "nbgrade", cfg.DBName)
	assert.Equal(t, "127.0.0.1:3306", cfg.Addr)
	assert.Equal(t, time.UTC, cfg.Loc)

	_, err = mysqlConfig("grader:secret@tcp(127.0.0.1:3306)/")
	assert.Error(t, err)

	_, err = mysqlConfig("not a dsn")
	assert.Error(t, err)
}
