package mock

import (
	"context"

	"github.com/fwojciec/visreg"
)

var _ visreg.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of visreg.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, entries []*visreg.Entry) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, entries []*visreg.Entry) error {
	return w.WriteReportFn(ctx, entries)
}

var _ visreg.ImageStore = (*ImageStore)(nil)

// ImageStore is a mock implementation of visreg.ImageStore.
type ImageStore struct {
	SaveImageFn func(slug, name string, data []byte) (string, error)
}

func (s *ImageStore) SaveImage(slug, name string, data []byte) (string, error) {
	return s.SaveImageFn(slug, name, data)
}
