package pipeline

import (
	"context"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// Executor runs a path's analytical steps strictly in order against the
// shared record. Step failures are absorbed as error outputs; only the
// run deadline stops execution early, marking the record truncated.
type Executor struct {
	registry core.StepRegistry
	logger   *logging.Logger
}

// NewExecutor creates an executor over a step registry.
func NewExecutor(registry core.StepRegistry, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{registry: registry, logger: logger}
}

// ExecuteSteps invokes each step in order. Each invocation sees a fresh
// snapshot that includes all earlier outputs. Evidence attached to an
// output is lifted onto the record.
func (e *Executor) ExecuteSteps(ctx context.Context, rec *core.AnalysisRecord, stepIDs []string) {
	log := e.logger.WithRun(string(rec.RunID)).WithPath(rec.SelectedPath.String())

	for _, id := range stepIDs {
		if ctx.Err() != nil {
			// Run deadline hit: truncate the remaining steps and let
			// the confidence monitor work with what exists.
			rec.Truncated = true
			rec.AppendOutput(core.AgentOutput{
				StepID:    id,
				Summary:   "run deadline exceeded before step started",
				ErrorKind: string(core.ErrCatTimeout),
			})
			log.Warn("run deadline exceeded, truncating path", "step", id)
			return
		}

		step, err := e.registry.Get(id)
		if err != nil {
			rec.AppendOutput(core.AgentOutput{
				StepID:    id,
				Summary:   "step not registered: " + id,
				ErrorKind: string(core.ErrCatStep),
			})
			log.Error("step missing from registry", "step", id)
			continue
		}

		out := step.Invoke(ctx, rec.Snapshot())
		rec.AppendOutput(out)
		if items := out.EvidenceItems(); len(items) > 0 {
			rec.AppendEvidence(items...)
		}

		if out.Failed() {
			log.Warn("step failed, continuing path", "step", id, "error_kind", out.ErrorKind)
		} else {
			log.Debug("step completed", "step", id, "confidence", out.Confidence)
		}
	}
}
