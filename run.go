package visreg

import (
	"context"
	"time"
)

// Capture sides.
const (
	SideSource = "source"
	SideTarget = "target"
)

// Run represents a single comparison run between two sites.
type Run struct {
	ID         string    `json:"id"`
	SourceSite string    `json:"sourceSite"`
	TargetSite string    `json:"targetSite"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Number of reconciled page paths and how many side captures failed.
	Pages    int `json:"pages"`
	Failures int `json:"failures"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SourceSite == "" {
		return Errorf(EINVALID, "run source site required")
	}
	if r.TargetSite == "" {
		return Errorf(EINVALID, "run target site required")
	}
	return nil
}

// CaptureRecord records the outcome of one side's capture attempt for a
// page path within a run.
type CaptureRecord struct {
	RunID string `json:"runId"`
	Path  string `json:"path"`
	Side  string `json:"side"` // SideSource or SideTarget
	OK    bool   `json:"ok"`

	// xxhash fingerprint of the captured image, empty on failure.
	ImageHash string `json:"imageHash"`
}

// Validate returns an error if the capture record contains invalid fields.
func (c *CaptureRecord) Validate() error {
	if c.RunID == "" {
		return Errorf(EINVALID, "capture run ID required")
	}
	if c.Path == "" {
		return Errorf(EINVALID, "capture path required")
	}
	if c.Side != SideSource && c.Side != SideTarget {
		return Errorf(EINVALID, "capture side must be %q or %q", SideSource, SideTarget)
	}
	return nil
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Limit int `json:"limit"`
}

// RunService persists run history.
type RunService interface {
	// CreateRun creates a new run record. The ID and StartedAt fields
	// are set on the passed run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun updates the run's finish time and counters.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// RecordCapture records the outcome of a single capture attempt.
	RecordCapture(ctx context.Context, rec *CaptureRecord) error

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindCaptures retrieves the capture records for a run in insertion
	// order.
	FindCaptures(ctx context.Context, runID string) ([]*CaptureRecord, error)
}
