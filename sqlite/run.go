package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/visreg"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ visreg.RunService = (*RunService)(nil)

// RunService implements visreg.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run record, setting ID and StartedAt.
func (s *RunService) CreateRun(ctx context.Context, run *visreg.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_site, target_site, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.SourceSite, run.TargetSite, run.StartedAt.Format(time.RFC3339))

	return err
}

// FinishRun stamps the run's finish time and stores its counters.
func (s *RunService) FinishRun(ctx context.Context, run *visreg.Run) error {
	if run.ID == "" {
		return visreg.Errorf(visreg.EINVALID, "run ID required")
	}

	run.FinishedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, pages = ?, failures = ?
		WHERE id = ?
	`, run.FinishedAt.Format(time.RFC3339), run.Pages, run.Failures, run.ID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return visreg.Errorf(visreg.ENOTFOUND, "run not found")
	}
	return nil
}

// RecordCapture records the outcome of a single capture attempt.
func (s *RunService) RecordCapture(ctx context.Context, rec *visreg.CaptureRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO captures (run_id, path, side, ok, image_hash)
		VALUES (?, ?, ?, ?, ?)
	`, rec.RunID, rec.Path, rec.Side, boolToInt(rec.OK), rec.ImageHash)

	return err
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter visreg.RunFilter) ([]*visreg.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_site, target_site, started_at, finished_at, pages, failures FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*visreg.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindCaptures retrieves the capture records for a run in insertion order.
func (s *RunService) FindCaptures(ctx context.Context, runID string) ([]*visreg.CaptureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, path, side, ok, image_hash
		FROM captures
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*visreg.CaptureRecord
	for rows.Next() {
		var rec visreg.CaptureRecord
		var ok int
		if err := rows.Scan(&rec.RunID, &rec.Path, &rec.Side, &ok, &rec.ImageHash); err != nil {
			return nil, err
		}
		rec.OK = ok != 0
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

func scanRun(rows *sql.Rows) (*visreg.Run, error) {
	var run visreg.Run
	var startedAt, finishedAt string

	if err := rows.Scan(&run.ID, &run.SourceSite, &run.TargetSite, &startedAt, &finishedAt, &run.Pages, &run.Failures); err != nil {
		return nil, err
	}

	var err error
	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt != "" {
		run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
