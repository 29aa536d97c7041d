package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

func TestWriter_WritesReportFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.Report = "# Report\n\ncontent\n"

	path, err := NewWriter(dir).Write(rec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, string(rec.RunID)+".md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "---\n"), "missing frontmatter: %s", content)
	assert.Contains(t, content, "run_id: "+string(rec.RunID))
	assert.True(t, strings.HasSuffix(content, rec.Report))
}

func TestWriter_EmptyReportRejected(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	_, err := NewWriter(t.TempDir()).Write(rec)
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}
