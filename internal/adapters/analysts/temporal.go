package analysts

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// TemporalAnalyst models the subject's track record: reputation score,
// past violations, and prior greenwashing accusations. The offline model
// derives these from sector baselines and claim language.
type TemporalAnalyst struct{}

func NewTemporalAnalyst() *TemporalAnalyst { return &TemporalAnalyst{} }

func (a *TemporalAnalyst) Name() string { return "temporal_analysis" }

func (a *TemporalAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("TEMPORAL_ANALYSIS_CANCELED", "temporal analysis canceled").WithCause(err)
	}

	baseline := sectorBaseline(snap.Sector)
	reputation := 100 - baseline

	vague := core.VagueKeywordCount(snap.ClaimText)
	violations := 0
	accusations := 0
	if baseline >= 60 {
		// High-baseline sectors carry documented compliance history.
		violations = 1
		accusations = vague
		if core.MatchesAbsolutePattern(snap.ClaimText) {
			accusations++
		}
	}
	patternDetected := accusations >= 2

	// Absolute language from a sector under scrutiny reads as reactive
	// messaging rather than a performance trend.
	reactive := patternDetected && !core.HasMetrics(snap.ClaimText)

	confidence := 0.6
	if snap.Sector == "" || snap.Sector == "General" {
		confidence = 0.45
	}

	return &core.Finding{
		Summary: fmt.Sprintf("Track record: reputation %d/100, %d violation(s), %d prior accusation(s)",
			reputation, violations, accusations),
		Payload: map[string]any{
			"reputation_score":  reputation,
			"past_violations":   violations,
			"prior_accusations": accusations,
			"pattern_detected":  patternDetected,
			"declining_trend":   false,
			"reactive_claims":   reactive,
		},
		Confidence: confidence,
	}, nil
}
