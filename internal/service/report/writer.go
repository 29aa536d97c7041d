package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// Writer persists rendered reports as markdown files, one per run.
type Writer struct {
	baseDir string
}

// NewWriter creates a writer rooted at baseDir (e.g. ".verity/reports").
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Write stores the record's report, prefixed with YAML frontmatter, and
// returns the file path. Writes are atomic so readers never observe a
// partial report.
func (w *Writer) Write(rec *core.AnalysisRecord) (string, error) {
	if rec.Report == "" {
		return "", core.ErrValidation("REPORT_EMPTY",
			fmt.Sprintf("run %s has no report to write", rec.RunID))
	}
	if err := os.MkdirAll(w.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	header, err := renderFrontmatter(rec)
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.baseDir, string(rec.RunID)+".md")
	if err := renameio.WriteFile(path, []byte(header+rec.Report), 0o600); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}
