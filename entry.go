package visreg

import "context"

// Entry describes the comparison outcome for a single page path. One
// entry is created per reconciled path after both capture attempts have
// resolved, and it is immutable from then on.
type Entry struct {
	// Filesystem-safe identifier derived from Path. See PathSlug.
	Slug string

	// The URL path shared by the source and target page.
	Path string

	// Image locations relative to the report root. Empty when that
	// side's page was missing or its capture failed.
	SourceImage string
	TargetImage string

	// True when the side had no page in its sitemap or every capture
	// attempt failed. The report renders a "not available" marker for
	// that side.
	SourceFailed bool
	TargetFailed bool

	// True when both captures succeeded and produced byte-identical
	// images. A hint for the reviewer, not a verdict.
	Identical bool
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.Path == "" {
		return Errorf(EINVALID, "entry path required")
	}
	if e.Slug == "" {
		return Errorf(EINVALID, "entry slug required")
	}
	return nil
}

// ReportWriter renders comparison entries into a human-reviewable report.
type ReportWriter interface {
	// WriteReport writes a single report document covering all entries,
	// in the order given.
	WriteReport(ctx context.Context, entries []*Entry) error
}

// ImageStore persists captured page images under per-page directories.
type ImageStore interface {
	// SaveImage writes image data into the slug's directory, creating it
	// if needed, and returns the image path relative to the report root.
	SaveImage(slug, name string, data []byte) (string, error)
}
