package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

func analyticalOutput(step string, conf float64) core.AgentOutput {
	return core.AgentOutput{StepID: step, Summary: step + " done", Confidence: conf}
}

func TestMonitor_AveragesSuccessfulOutputs(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.6))
	rec.AppendOutput(analyticalOutput("b", 0.8))
	rec.AppendOutput(core.AgentOutput{StepID: "complexity_router", Meta: true, Confidence: 0.95})

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	assert.InDelta(t, 0.7, rec.Confidence, 1e-9)
	assert.False(t, rec.NeedsRevision)
	assert.Equal(t, 0, rec.IterationCount)
}

func TestMonitor_FailedOutputsExcludedFromMean(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.9))
	rec.AppendOutput(core.AgentOutput{StepID: "b", ErrorKind: "step"})

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	assert.InDelta(t, 0.9, rec.Confidence, 1e-9)
}

func TestMonitor_NoAnalyticalOutputsScoresNeutral(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(core.AgentOutput{StepID: "complexity_router", Meta: true})

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	assert.Equal(t, 0.5, rec.Confidence)
	assert.False(t, rec.NeedsRevision)
}

func TestMonitor_AllStepsFailedScoresZeroAndRevises(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(core.AgentOutput{StepID: "a", ErrorKind: "step"})
	rec.AppendOutput(core.AgentOutput{StepID: "b", ErrorKind: "timeout"})

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	assert.Equal(t, 0.0, rec.Confidence)
	assert.True(t, rec.NeedsRevision)
	assert.Equal(t, 1, rec.IterationCount)
}

func TestMonitor_ConflictPenaltyApplied(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.8))
	rec.Consensus = &core.ConsensusResult{ConflictRatio: 0.5}

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	// 0.8 scaled by (1 - 0.5*0.30).
	assert.InDelta(t, 0.68, rec.Confidence, 1e-9)
}

func TestMonitor_ConflictPenaltyCapped(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.9))
	rec.Consensus = &core.ConsensusResult{ConflictRatio: 1.0}

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	// Raw penalty would be 0.30; capped at 0.25, so 0.9 * 0.75.
	assert.InDelta(t, 0.675, rec.Confidence, 1e-9)
}

func TestMonitor_RevisionStopsAtCap(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.2))

	monitor := NewMonitor(0.5, 2, nil)

	require.NoError(t, monitor.Assess(rec))
	assert.True(t, rec.NeedsRevision)
	assert.Equal(t, 1, rec.IterationCount)

	require.NoError(t, monitor.Assess(rec))
	assert.True(t, rec.NeedsRevision)
	assert.Equal(t, 2, rec.IterationCount)

	// At the cap: low confidence no longer triggers another pass.
	require.NoError(t, monitor.Assess(rec))
	assert.False(t, rec.NeedsRevision)
	assert.Equal(t, 2, rec.IterationCount)
}

func TestMonitor_ExceededCapIsInvariantViolation(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.2))
	rec.IterationCount = 3

	monitor := NewMonitor(0.5, 2, nil)
	err := monitor.Assess(rec)
	require.Error(t, err)
	assert.True(t, core.IsInvariant(err))
}

func TestMonitor_AppendsMonitorOutput(t *testing.T) {
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	rec.AppendOutput(analyticalOutput("a", 0.8))

	monitor := NewMonitor(0.5, 2, nil)
	require.NoError(t, monitor.Assess(rec))

	out := rec.Outputs[len(rec.Outputs)-1]
	assert.Equal(t, "confidence_monitor", out.StepID)
	assert.True(t, out.Meta)
	assert.Equal(t, false, out.Payload["needs_revision"])
}
