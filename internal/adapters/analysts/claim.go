package analysts

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// ClaimAnalyst decomposes the raw claim into structured signals: metric
// presence, target dates, vague language, absolute patterns. Downstream
// steps read these from its payload.
type ClaimAnalyst struct{}

func NewClaimAnalyst() *ClaimAnalyst { return &ClaimAnalyst{} }

func (a *ClaimAnalyst) Name() string { return "claim_extraction" }

func (a *ClaimAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("CLAIM_EXTRACTION_CANCELED", "claim extraction canceled").WithCause(err)
	}

	claim := snap.ClaimText
	hasMetrics := core.HasMetrics(claim)
	hasYear := core.HasTargetYear(claim)
	vague := core.VagueKeywordCount(claim)
	absolute := core.MatchesAbsolutePattern(claim)

	// Specificity on a 0-10 scale: metrics and dates raise it, vague
	// buzzwords lower it.
	specificity := 5
	if hasMetrics {
		specificity += 3
	}
	if hasYear {
		specificity += 2
	}
	specificity -= vague
	if absolute {
		specificity -= 2
	}
	if specificity < 0 {
		specificity = 0
	}
	if specificity > 10 {
		specificity = 10
	}

	confidence := 0.5 + float64(specificity)*0.04

	return &core.Finding{
		Summary: fmt.Sprintf("Extracted claim signals: specificity %d/10, %d vague term(s)",
			specificity, vague),
		Payload: map[string]any{
			"has_metrics":       hasMetrics,
			"has_target_year":   hasYear,
			"vague_terms_count": vague,
			"absolute_claim":    absolute,
			"specificity_score": specificity,
		},
		Confidence: confidence,
	}, nil
}
