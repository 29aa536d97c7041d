package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

func TestRenderFrontmatter(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme Corp", "claim", "Energy")
	rec.SelectedPath = core.PathDeep
	rec.Confidence = 0.42
	rec.FinalVerdict = &core.FinalVerdict{
		RiskLevel:   core.RiskHigh,
		Confidence:  0.64,
		GeneratedAt: time.Now(),
	}

	got, err := renderFrontmatter(rec)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "---\n"))
	assert.True(t, strings.HasSuffix(got, "---\n\n"))
	assert.Contains(t, got, "run_id: "+string(rec.RunID))
	assert.Contains(t, got, "subject: Acme Corp")
	assert.Contains(t, got, "sector: Energy")
	assert.Contains(t, got, "path: deep")
	assert.Contains(t, got, "risk_level: HIGH")
	assert.Contains(t, got, "confidence: 0.64")
}

func TestRenderFrontmatter_OmitsEmptyFields(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")

	got, err := renderFrontmatter(rec)
	require.NoError(t, err)

	assert.NotContains(t, got, "sector:")
	assert.NotContains(t, got, "risk_level:")
	assert.NotContains(t, got, "truncated:")
}

func TestRenderFrontmatter_MarksTruncatedRuns(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.Truncated = true

	got, err := renderFrontmatter(rec)
	require.NoError(t, err)
	assert.Contains(t, got, "truncated: true")
}
