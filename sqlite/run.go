package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/forumcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ forumcrawl.RunService = (*RunService)(nil)

// RunService implements forumcrawl.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// StartRun creates a run with a generated ID.
func (s *RunService) StartRun(ctx context.Context, run *forumcrawl.Run) error {
	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.StartURL, run.StartedAt.Format(timeFormat))

	return err
}

// CurrentRun returns the latest unfinished run.
func (s *RunService) CurrentRun(ctx context.Context) (*forumcrawl.Run, error) {
	var run forumcrawl.Run
	var startedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, started_at
		FROM runs
		WHERE finished_at = ''
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&run.ID, &run.StartURL, &startedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, forumcrawl.Errorf(forumcrawl.ENOTFOUND, "no unfinished run")
	}
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = parseTime(startedAt, "started_at")
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*forumcrawl.Run, error) {
	var run forumcrawl.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.StartURL, &startedAt, &finishedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, forumcrawl.Errorf(forumcrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// FinishRun records the finish time of a run.
func (s *RunService) FinishRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ? WHERE id = ?
	`, time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return forumcrawl.Errorf(forumcrawl.ENOTFOUND, "run not found")
	}
	return nil
}
