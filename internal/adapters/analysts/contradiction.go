package analysts

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// ContradictionAnalyst verifies the claim against retrieved evidence.
// Verdict rules: contradict ratio > 0.3 means Contradicted; support
// ratio > 0.5 means Verified; fewer than 3 items means Unverifiable;
// otherwise Partially True.
type ContradictionAnalyst struct{}

func NewContradictionAnalyst() *ContradictionAnalyst { return &ContradictionAnalyst{} }

func (a *ContradictionAnalyst) Name() string { return "contradiction_analysis" }

func (a *ContradictionAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("CONTRADICTION_ANALYSIS_CANCELED", "contradiction analysis canceled").WithCause(err)
	}

	supporting, contradicting, total := 0, 0, 0
	if out, ok := snap.LatestOutput("evidence_retrieval"); ok && !out.Failed() {
		supporting = payloadInt(out.Payload, "supporting")
		contradicting = payloadInt(out.Payload, "contradicting")
		total = payloadInt(out.Payload, "total_sources")
	} else {
		total = len(snap.Evidence)
	}

	// Absolute language counts as an internal contradiction: the claim
	// asserts more than any evidence base can support.
	contradictions := contradicting
	if core.MatchesAbsolutePattern(snap.ClaimText) {
		contradictions++
	}
	if core.VagueKeywordCount(snap.ClaimText) >= 3 && !core.HasMetrics(snap.ClaimText) {
		contradictions++
	}

	var verdict string
	var confidence float64
	supportRatio, contradictRatio := 0.0, 0.0
	if total > 0 {
		supportRatio = float64(supporting) / float64(total)
		contradictRatio = float64(contradicting) / float64(total)
	}
	switch {
	case contradictRatio > 0.3:
		verdict = "Contradicted"
		confidence = 0.70
	case supportRatio > 0.5:
		verdict = "Verified"
		confidence = 0.60
	case total < 3:
		verdict = "Unverifiable"
		confidence = 0.30
	default:
		verdict = "Partially True"
		confidence = 0.50
	}

	return &core.Finding{
		Summary: fmt.Sprintf("Verification verdict: %s (%d contradiction(s))", verdict, contradictions),
		Payload: map[string]any{
			"overall_verdict":      verdict,
			"contradictions_count": contradictions,
			"supporting":           supporting,
			"contradicting":        contradicting,
		},
		Confidence: confidence,
	}, nil
}
