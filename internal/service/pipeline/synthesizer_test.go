package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

func scoredRecord(claim, sector string, level core.RiskLevel, confidence float64) *core.AnalysisRecord {
	rec := core.NewAnalysisRecord("Acme Corp", claim, sector)
	rec.AppendOutput(core.AgentOutput{
		StepID:     "risk_scoring",
		Summary:    "risk scored",
		Payload:    map[string]any{"risk_level": string(level)},
		Confidence: 0.85,
	})
	rec.Confidence = confidence
	return rec
}

func TestSynthesizer_AbsoluteClaimEscalates(t *testing.T) {
	rec := scoredRecord("Our packaging is 100% sustainable", "Retail", core.RiskModerate, 0.9)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	require.NotNil(t, rec.FinalVerdict)
	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.54, rec.FinalVerdict.Confidence, 1e-9)
	assert.NotEmpty(t, rec.FinalVerdict.Escalation)
	assert.Empty(t, rec.FinalVerdict.Downgrade)
	assert.Equal(t, core.RiskHigh, rec.RiskLevel)
}

func TestSynthesizer_AbsoluteEscalationCapsConfidence(t *testing.T) {
	// 0.9 * 0.60 = 0.54 stays; a very confident run would cap at 0.75.
	rec := scoredRecord("completely green operations", "Retail", core.RiskModerate, 1.0)
	rec.Confidence = 1.5 // forced out of range to exercise the cap

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))
	assert.InDelta(t, 0.75, rec.FinalVerdict.Confidence, 1e-9)
}

func TestSynthesizer_LegitimateCarbonClaimDowngrades(t *testing.T) {
	claim := "We will be carbon neutral by 2030, cutting 5 million tons of CO2"
	rec := scoredRecord(claim, "Technology", core.RiskModerate, 0.7)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskLow, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.77, rec.FinalVerdict.Confidence, 1e-9)
	assert.NotEmpty(t, rec.FinalVerdict.Downgrade)
	assert.Empty(t, rec.FinalVerdict.Escalation)
}

func TestSynthesizer_LowReputationWithViolationsEscalates(t *testing.T) {
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskModerate, 0.7)
	rec.AppendOutput(core.AgentOutput{
		StepID: "temporal_analysis",
		Payload: map[string]any{
			"reputation_score": 30,
			"past_violations":  2,
		},
		Confidence: 0.6,
	})

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.49, rec.FinalVerdict.Confidence, 1e-9)
	assert.Contains(t, rec.FinalVerdict.Escalation, "reputation")
}

func TestSynthesizer_RepeatedPatternEscalates(t *testing.T) {
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskModerate, 0.8)
	rec.AppendOutput(core.AgentOutput{
		StepID: "temporal_analysis",
		Payload: map[string]any{
			"reputation_score":  60,
			"pattern_detected":  true,
			"prior_accusations": 3,
		},
		Confidence: 0.6,
	})

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.52, rec.FinalVerdict.Confidence, 1e-9)
}

func TestSynthesizer_ContradictionsEscalateModerate(t *testing.T) {
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskModerate, 0.8)
	rec.AppendOutput(core.AgentOutput{
		StepID:     "contradiction_analysis",
		Payload:    map[string]any{"contradictions_count": 4},
		Confidence: 0.7,
	})

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.6, rec.FinalVerdict.Confidence, 1e-9)
	assert.Contains(t, rec.FinalVerdict.Escalation, "contradictions")
}

func TestSynthesizer_HighConflictRatioEscalatesModerate(t *testing.T) {
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskModerate, 0.8)
	rec.Consensus = &core.ConsensusResult{ConflictRatio: 0.7, WinningVerdict: core.RiskModerate}

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.Contains(t, rec.FinalVerdict.Escalation, "disagreement")
}

func TestSynthesizer_SuperlativeEscalatesModerate(t *testing.T) {
	rec := scoredRecord("We are the greenest company in the region", "Technology", core.RiskModerate, 0.8)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.56, rec.FinalVerdict.Confidence, 1e-9)
}

func TestSynthesizer_VagueClaimInHighRiskSectorEscalates(t *testing.T) {
	rec := scoredRecord("Committed to sustainable operations and clean energy", "Energy", core.RiskModerate, 0.8)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.Contains(t, rec.FinalVerdict.Escalation, "Energy")
}

func TestSynthesizer_SameClaimOutsideHighRiskSectorStaysModerate(t *testing.T) {
	rec := scoredRecord("Committed to sustainable operations and clean energy", "Technology", core.RiskModerate, 0.8)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskModerate, rec.FinalVerdict.RiskLevel)
	assert.Empty(t, rec.FinalVerdict.Escalation)
}

func TestSynthesizer_LowVerdictNotEscalatedByModerateRules(t *testing.T) {
	rec := scoredRecord("We are the greenest company in the region", "Energy", core.RiskLow, 0.8)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	// Superlative and sector rules only fire on a MODERATE verdict.
	assert.Equal(t, core.RiskLow, rec.FinalVerdict.RiskLevel)
}

func TestSynthesizer_RecordRiskLevelOverridesRiskScore(t *testing.T) {
	// A debate leaves the winning verdict on the record; the cascade must
	// start from it, not from the risk scorer's pre-debate level.
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskLow, 0.8)
	rec.RiskLevel = core.RiskHigh
	rec.Consensus = &core.ConsensusResult{WinningVerdict: core.RiskHigh, ConflictRatio: 0.4}

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskHigh, rec.FinalVerdict.RiskLevel)
	assert.InDelta(t, 0.8, rec.FinalVerdict.Confidence, 1e-9)
}

func TestSynthesizer_DefaultsToModerateWithoutRiskScore(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme Corp", "Our factories reduce waste output annually", "Retail")
	rec.Confidence = 0.6

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, core.RiskModerate, rec.FinalVerdict.RiskLevel)
}

func TestSynthesizer_CollectsEvidenceSources(t *testing.T) {
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskLow, 0.8)
	rec.AppendEvidence(
		core.Evidence{Source: "NGO Registry"},
		core.Evidence{Source: "News Archive"},
		core.Evidence{Source: "NGO Registry"},
	)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	assert.Equal(t, 3, rec.FinalVerdict.EvidenceCount)
	assert.Equal(t, []string{"NGO Registry", "News Archive"}, rec.FinalVerdict.Sources)
}

func TestSynthesizer_SecondSynthesisIsInvariantViolation(t *testing.T) {
	rec := scoredRecord("Our factories reduce waste output annually", "Retail", core.RiskLow, 0.8)

	s := NewSynthesizer(nil)
	require.NoError(t, s.Synthesize(rec))

	err := s.Synthesize(rec)
	require.Error(t, err)
	assert.True(t, core.IsInvariant(err))
}
