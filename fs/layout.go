// Package fs manages the on-disk layout of a report directory.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/visreg"
)

// LogFilename is the fixed name of the run log inside the report
// directory.
const LogFilename = "logs.txt"

// Ensure Layout implements visreg.ImageStore at compile time.
var _ visreg.ImageStore = (*Layout)(nil)

// Layout is the report root directory: it holds the run log, the report
// document, and one subdirectory per page slug containing that page's
// captured images. All directory creation is idempotent; there is only
// one writer per run.
type Layout struct {
	root string
}

// NewLayout creates a Layout rooted at root and ensures the root
// directory exists.
func NewLayout(root string) (*Layout, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &Layout{root: root}, nil
}

// Root returns the report root directory.
func (l *Layout) Root() string {
	return l.root
}

// LogPath returns the full path of the run log file.
func (l *Layout) LogPath() string {
	return filepath.Join(l.root, LogFilename)
}

// OpenLog opens the run log for appending, creating it if needed.
func (l *Layout) OpenLog() (*os.File, error) {
	f, err := os.OpenFile(l.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	return f, nil
}

// SaveImage writes image data into the slug's directory, creating it if
// needed, and returns the image path relative to the report root using
// forward slashes (the form the report document links against).
func (l *Layout) SaveImage(slug, name string, data []byte) (string, error) {
	dir := filepath.Join(l.root, slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating page directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return slug + "/" + name, nil
}
