// Package html renders comparison reports as static HTML documents
// using html/template.
package html

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/fwojciec/visreg"
)

// ReportFilename is the fixed name of the report document inside the
// report directory.
const ReportFilename = "index.html"

// reportTemplate produces a single self-contained document: one
// div.page block per entry with a heading, manual Pass/Fail checkboxes,
// and per side either the captured image or a "not available" marker.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Visual Regression Report</title>
<style>
body{font-family:sans-serif}
img{max-width:45%;border:1px solid #ccc;margin:10px}
div.page{margin-bottom:40px}
label{margin-right:20px}
.missing{color:red}
.identical{color:green}
</style>
</head>
<body>
<h1>Visual Regression Report</h1>
{{range .}}<div class='page'>
<h2>{{.Path}}</h2>
{{if .Identical}}<p class='identical'>Source and target captures are identical</p>
{{end}}<div><label><input type='checkbox'/> Pass</label><label><input type='checkbox'/> Fail</label></div>
{{if .SourceImage}}<img src='{{.SourceImage}}' alt='Source'>{{else}}<p class='missing'>Source page not available</p>{{end}}
{{if .TargetImage}}<img src='{{.TargetImage}}' alt='Target'>{{else}}<p class='missing'>Target page not available</p>{{end}}
</div>
{{end}}</body>
</html>
`))

// Ensure Writer implements visreg.ReportWriter at compile time.
var _ visreg.ReportWriter = (*Writer)(nil)

// Writer writes the comparison report into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer that writes ReportFilename inside dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the full path of the report document.
func (w *Writer) Path() string {
	return filepath.Join(w.dir, ReportFilename)
}

// WriteReport renders the entries in order and writes the document.
func (w *Writer) WriteReport(ctx context.Context, entries []*visreg.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, entries); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if err := os.WriteFile(w.Path(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
