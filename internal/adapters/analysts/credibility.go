package analysts

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// CredibilityAnalyst rates the quality of the accumulated evidence base.
type CredibilityAnalyst struct{}

func NewCredibilityAnalyst() *CredibilityAnalyst { return &CredibilityAnalyst{} }

func (a *CredibilityAnalyst) Name() string { return "credibility_analysis" }

func (a *CredibilityAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("CREDIBILITY_ANALYSIS_CANCELED", "credibility analysis canceled").WithCause(err)
	}

	if len(snap.Evidence) == 0 {
		return &core.Finding{
			Summary: "No evidence sources to assess, claim remains unsupported, major concern",
			Payload: map[string]any{
				"average_credibility": 0.0,
				"source_count":        0,
			},
			Confidence: 0.3,
		}, nil
	}

	var sum float64
	for _, ev := range snap.Evidence {
		sum += ev.Credibility
	}
	avg := sum / float64(len(snap.Evidence))

	var summary string
	switch {
	case avg >= 0.75:
		summary = fmt.Sprintf("Evidence base verified against %d high-quality source(s)", len(snap.Evidence))
	case avg < 0.5:
		summary = fmt.Sprintf("Evidence relies on low-quality sources, major concern (avg %.2f)", avg)
	default:
		summary = fmt.Sprintf("Mixed-quality evidence base across %d source(s)", len(snap.Evidence))
	}

	return &core.Finding{
		Summary: summary,
		Payload: map[string]any{
			"average_credibility": avg,
			"source_count":        len(snap.Evidence),
		},
		Confidence: clamp01(0.4 + avg/2),
	}, nil
}
