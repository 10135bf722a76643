package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"nbgrade/internal/domain"
)

const createRunsTable = `CREATE TABLE IF NOT EXISTS grading_runs (
	id CHAR(36) NOT NULL PRIMARY KEY,
	assignment VARCHAR(64) NOT NULL,
	part_id VARCHAR(32) NOT NULL,
	submission VARCHAR(512) NOT NULL,
	score DOUBLE NOT NULL,
	feedback TEXT NOT NULL,
	is_error BOOLEAN NOT NULL,
	cases JSON NOT NULL,
	started_at DATETIME(6) NOT NULL,
	duration_ms BIGINT NOT NULL,
	INDEX idx_started_at (started_at)
)`

const insertRun = `INSERT INTO grading_runs
	(id, assignment, part_id, submission, score, feedback, is_error, cases, started_at, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectLatestRun = `SELECT id, assignment, part_id, submission, score, feedback, is_error, cases, started_at, duration_ms
	FROM grading_runs ORDER BY started_at DESC LIMIT 1`

// MySQLStorage keeps the grading history in the grading_runs table.
type MySQLStorage struct {
	db *sql.DB
}

// OpenMySQL connects using dsn and creates the table when missing.
func OpenMySQL(ctx context.Context, dsn string) (*MySQLStorage, error) {
	cfg, err := mysqlConfig(dsn)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create grading_runs table: %w", err)
	}
	return &MySQLStorage{db: db}, nil
}

func mysqlConfig(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("parse mysql dsn: no database name")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg, nil
}

// Save implements Storage.
func (s *MySQLStorage) Save(run *domain.GradingRun) error {
	cases, err := json.Marshal(run.Cases)
	if err != nil {
		return fmt.Errorf("marshal cases: %w", err)
	}
	_, err = s.db.Exec(insertRun,
		run.ID,
		run.Assignment,
		run.PartID,
		run.Submission,
		run.Feedback.Score,
		run.Feedback.Message,
		run.Feedback.IsError,
		cases,
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Load implements Storage.
func (s *MySQLStorage) Load() (*domain.GradingRun, error) {
	var (
		run        domain.GradingRun
		cases      []byte
		durationMS int64
	)
	err := s.db.QueryRow(selectLatestRun).Scan(
		&run.ID,
		&run.Assignment,
		&run.PartID,
		&run.Submission,
		&run.Feedback.Score,
		&run.Feedback.Message,
		&run.Feedback.IsError,
		&cases,
		&run.StartedAt,
		&durationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("select latest run: %w", err)
	}
	if err := json.Unmarshal(cases, &run.Cases); err != nil {
		return nil, fmt.Errorf("parse cases: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// Close releases the connection pool.
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}
