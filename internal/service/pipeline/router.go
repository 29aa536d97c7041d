package pipeline

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// routeBand maps complexity scores below its bound to a path. Bands are
// checked in order; a score past every bound takes the deep path.
type routeBand struct {
	below float64
	path  core.Path
}

func routingTable(fast, deep float64) []routeBand {
	return []routeBand{
		{below: fast, path: core.PathFast},
		{below: deep, path: core.PathStandard},
	}
}

// Router selects the execution path from claim complexity.
type Router struct {
	scorer core.ComplexityScorer
	logger *logging.Logger
	table  []routeBand
}

// NewRouter creates a router with the default 0.3/0.7 thresholds.
func NewRouter(scorer core.ComplexityScorer, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Router{scorer: scorer, logger: logger, table: routingTable(0.3, 0.7)}
}

// WithThresholds overrides the routing thresholds. Invalid bounds keep
// the defaults.
func (r *Router) WithThresholds(fast, deep float64) *Router {
	if fast > 0 && deep > fast && deep <= 1 {
		r.table = routingTable(fast, deep)
	}
	return r
}

// Route scores the claim, records the score and selected path on the
// record, and appends the routing output. Scorer failure is absorbed:
// the run fails closed onto the standard path with score 0.5.
func (r *Router) Route(ctx context.Context, rec *core.AnalysisRecord) core.Path {
	log := r.logger.WithRun(string(rec.RunID))

	score, err := r.scorer.Score(ctx, rec.ClaimText, rec.Subject)
	errorKind := ""
	if err != nil {
		log.Warn("complexity scoring failed, defaulting to standard path", "error", err)
		score = 0.5
		errorKind = string(core.ErrCatScoring)
	}
	score = clamp01(score)

	path := core.PathDeep
	for _, band := range r.table {
		if score < band.below {
			path = band.path
			break
		}
	}

	rec.ComplexityScore = score
	rec.SelectedPath = path
	rec.AppendOutput(core.AgentOutput{
		StepID:  "complexity_router",
		Summary: fmt.Sprintf("Assessed claim complexity %.2f, selected %s path", score, path),
		Payload: map[string]any{
			"complexity_score": score,
			"selected_path":    path.String(),
		},
		Confidence: score,
		ErrorKind:  errorKind,
		Meta:       true,
	})

	log.Info("routed run", "complexity", score, "path", path.String())
	return path
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
