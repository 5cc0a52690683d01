package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/prospector"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ prospector.RunService = (*RunService)(nil)

// RunService implements prospector.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun registers a new run in the Pending state and returns its ID.
func (s *RunService) CreateRun(ctx context.Context, email, description, url string) (string, error) {
	if url == "" {
		return "", prospector.Errorf(prospector.EINVALID, "run URL required")
	}

	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, email, description, url, status, results, errors, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', '', ?, ?)
	`, id, email, description, url, prospector.RunPending, now, now)
	if err != nil {
		return "", err
	}

	return id, nil
}

// UpdateStatus advances a run's status, recording optional result and error
// payloads. Transitions that would move the run backwards, repeat the current
// status, or leave a terminal state are rejected with ECONFLICT.
func (s *RunService) UpdateStatus(ctx context.Context, runID string, status prospector.RunStatus, results, errs string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current prospector.RunStatus
	err = tx.QueryRowContext(ctx, "SELECT status FROM runs WHERE id = ?", runID).Scan(&current)
	if err == sql.ErrNoRows {
		return prospector.Errorf(prospector.ENOTFOUND, "run %q not found", runID)
	}
	if err != nil {
		return err
	}

	if !current.CanTransitionTo(status) {
		return prospector.Errorf(prospector.ECONFLICT,
			"cannot transition run %q from %s to %s", runID, current, status)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE runs SET status = ?, results = ?, errors = ?, updated_at = ? WHERE id = ?
	`, status, results, errs, time.Now().UTC().Format(time.RFC3339), runID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, runID string) (*prospector.Run, error) {
	var run prospector.Run
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, description, url, status, results, errors, created_at, updated_at
		FROM runs WHERE id = ?
	`, runID).Scan(&run.ID, &run.Email, &run.Description, &run.URL, &run.Status,
		&run.Results, &run.Errors, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, prospector.Errorf(prospector.ENOTFOUND, "run %q not found", runID)
	}
	if err != nil {
		return nil, err
	}

	if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if run.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &run, nil
}
