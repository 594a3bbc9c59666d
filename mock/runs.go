package mock

import (
	"context"

	"github.com/fwojciec/visreg"
)

var _ visreg.RunService = (*RunService)(nil)

// RunService is a mock implementation of visreg.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *visreg.Run) error
	FinishRunFn     func(ctx context.Context, run *visreg.Run) error
	RecordCaptureFn func(ctx context.Context, rec *visreg.CaptureRecord) error
	FindRunsFn      func(ctx context.Context, filter visreg.RunFilter) ([]*visreg.Run, error)
	FindCapturesFn  func(ctx context.Context, runID string) ([]*visreg.CaptureRecord, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *visreg.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *visreg.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) RecordCapture(ctx context.Context, rec *visreg.CaptureRecord) error {
	return s.RecordCaptureFn(ctx, rec)
}

func (s *RunService) FindRuns(ctx context.Context, filter visreg.RunFilter) ([]*visreg.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindCaptures(ctx context.Context, runID string) ([]*visreg.CaptureRecord, error) {
	return s.FindCapturesFn(ctx, runID)
}
