package pipeline

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// Monitor aggregates run confidence after the analytical steps finish and
// decides whether the run needs a revision pass.
type Monitor struct {
	threshold    float64
	maxRevisions int
	logger       *logging.Logger
}

// NewMonitor creates a monitor. threshold outside (0,1] falls back to 0.5;
// maxRevisions below 0 falls back to 2.
func NewMonitor(threshold float64, maxRevisions int, logger *logging.Logger) *Monitor {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}
	if maxRevisions < 0 {
		maxRevisions = 2
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{threshold: threshold, maxRevisions: maxRevisions, logger: logger}
}

// Assess computes the aggregate confidence, applies the consensus conflict
// penalty, and flags the record for revision when confidence falls below
// the threshold and the iteration cap permits another pass. Exceeding the
// cap is an invariant violation.
func (m *Monitor) Assess(rec *core.AnalysisRecord) error {
	log := m.logger.WithRun(string(rec.RunID))

	confidence := aggregateConfidence(rec)

	penalty := 0.0
	if rec.Consensus != nil {
		penalty = rec.Consensus.ConflictRatio * 0.30
		if penalty > 0.25 {
			penalty = 0.25
		}
		confidence *= 1 - penalty
	}

	rec.Confidence = confidence
	rec.NeedsRevision = false

	if confidence < m.threshold {
		if rec.IterationCount > m.maxRevisions {
			return core.ErrInvariant(core.CodeIterationCap,
				fmt.Sprintf("run %s exceeded %d revision passes", rec.RunID, m.maxRevisions))
		}
		if rec.IterationCount < m.maxRevisions {
			rec.IterationCount++
			rec.NeedsRevision = true
		}
	}

	rec.AppendOutput(core.AgentOutput{
		StepID: "confidence_monitor",
		Summary: fmt.Sprintf("Aggregate confidence %.2f (threshold %.2f), revision=%t",
			confidence, m.threshold, rec.NeedsRevision),
		Payload: map[string]any{
			"aggregate_confidence": confidence,
			"conflict_penalty":     penalty,
			"threshold":            m.threshold,
			"needs_revision":       rec.NeedsRevision,
			"iteration_count":      rec.IterationCount,
		},
		Confidence: confidence,
		Meta:       true,
	})

	log.Info("confidence assessed",
		"confidence", confidence,
		"needs_revision", rec.NeedsRevision,
		"iteration", rec.IterationCount)
	return nil
}

// aggregateConfidence averages the confidences of successful analytical
// outputs. A run where no analytical step ran scores neutral 0.5; a run
// where every step failed scores 0.
func aggregateConfidence(rec *core.AnalysisRecord) float64 {
	outputs := rec.AnalyticalOutputs()
	if len(outputs) == 0 {
		return 0.5
	}
	var sum float64
	succeeded := 0
	for _, o := range outputs {
		if o.Failed() {
			continue
		}
		sum += o.Confidence
		succeeded++
	}
	if succeeded == 0 {
		return 0
	}
	return sum / float64(succeeded)
}
