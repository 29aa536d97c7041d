package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

func finalizedRecord(t *testing.T) *core.AnalysisRecord {
	t.Helper()
	rec := core.NewAnalysisRecord("Acme Corp", "We are 100% sustainable", "Energy")
	rec.SelectedPath = core.PathDeep
	rec.ComplexityScore = 0.85
	rec.AppendOutput(core.AgentOutput{
		StepID:     "claim_extraction",
		Summary:    "extracted 1 claim with no hard metrics",
		Confidence: 0.6,
	})
	rec.AppendOutput(core.AgentOutput{
		StepID:    "evidence_retrieval",
		Summary:   "retrieval failed",
		ErrorKind: "timeout",
	})
	rec.AppendEvidence(core.Evidence{Source: "NGO Registry", Title: "Emissions audit", Credibility: 0.9})
	rec.Consensus = &core.ConsensusResult{
		WinningVerdict:      core.RiskHigh,
		ConsensusConfidence: 0.7,
		VoteDistribution:    map[core.RiskLevel]int{core.RiskHigh: 9, core.RiskLow: 4},
		ConflictingStepIDs:  []string{"claim_extraction"},
		ConflictRatio:       0.5,
		Rounds:              2,
		ArgumentCount:       4,
	}
	require.NoError(t, rec.SetFinalVerdict(&core.FinalVerdict{
		RiskLevel:     core.RiskHigh,
		Confidence:    0.54,
		Escalation:    "absolute claim language",
		EvidenceCount: 1,
		GeneratedAt:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}))
	return rec
}

func TestGenerator_RendersFullReport(t *testing.T) {
	gen := NewGenerator()
	out, err := gen.Generate(finalizedRecord(t))
	require.NoError(t, err)

	assert.Contains(t, out, "# Greenwashing Risk Analysis: Acme Corp")
	assert.Contains(t, out, "**Sector** Energy")
	assert.Contains(t, out, "| **HIGH** | 54% | 1 item(s) |")
	assert.Contains(t, out, "**Escalated**: absolute claim language")
	assert.Contains(t, out, "claim_extraction")
	assert.Contains(t, out, "_failed (timeout)_")
	assert.Contains(t, out, "2 debate round(s)")
	assert.Contains(t, out, "HIGH: 9 vote(s)")
	assert.Contains(t, out, "Dissenting analysts: claim_extraction")
	assert.Contains(t, out, "NGO Registry")
	assert.NotContains(t, out, "**Downgraded**")
}

func TestGenerator_UnanimousConsensus(t *testing.T) {
	rec := finalizedRecord(t)
	rec.Consensus = &core.ConsensusResult{WinningVerdict: core.RiskLow, Rounds: 0}

	out, err := NewGenerator().Generate(rec)
	require.NoError(t, err)
	assert.Contains(t, out, "All analysts agreed on **LOW**")
}

func TestGenerator_RequiresFinalVerdict(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	_, err := NewGenerator().Generate(rec)
	require.Error(t, err)
	assert.True(t, core.IsInvariant(err))
}

func TestGenerator_TruncatedRunNoted(t *testing.T) {
	rec := finalizedRecord(t)
	rec.Truncated = true

	out, err := NewGenerator().Generate(rec)
	require.NoError(t, err)
	assert.Contains(t, out, "partial results")
}
