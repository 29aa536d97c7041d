package analysts

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

var promotionalTone = []string{
	"proud", "excited", "leading", "committed", "passionate",
	"world-class", "revolutionary", "best",
}

var substantiveTone = []string{
	"reduced", "invested", "measured", "audited", "reported",
	"achieved", "certified", "disclosed",
}

// SentimentAnalyst measures divergence between promotional tone and
// substantive content. High divergence (marketing language without
// operational verbs) is a greenwashing tell.
type SentimentAnalyst struct{}

func NewSentimentAnalyst() *SentimentAnalyst { return &SentimentAnalyst{} }

func (a *SentimentAnalyst) Name() string { return "sentiment_analysis" }

func (a *SentimentAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("SENTIMENT_ANALYSIS_CANCELED", "sentiment analysis canceled").WithCause(err)
	}

	lower := toLower(snap.ClaimText)
	promo, substantive := 0, 0
	for _, w := range promotionalTone {
		if strings.Contains(lower, w) {
			promo++
		}
	}
	for _, w := range substantiveTone {
		if strings.Contains(lower, w) {
			substantive++
		}
	}

	// Divergence 0-100: promotional language raises it, substantive
	// verbs and hard numbers lower it.
	divergence := 30 + promo*20 - substantive*15
	if core.HasSuperlative(snap.ClaimText) {
		divergence += 15
	}
	if core.HasMetrics(snap.ClaimText) {
		divergence -= 15
	}
	if divergence < 0 {
		divergence = 0
	}
	if divergence > 100 {
		divergence = 100
	}

	var summary string
	switch {
	case divergence >= 70:
		summary = fmt.Sprintf("Severe tone divergence (%d/100): promotional language outweighs substance", divergence)
	case divergence <= 25:
		summary = fmt.Sprintf("Low risk tone profile (%d/100): substantive language dominates", divergence)
	default:
		summary = fmt.Sprintf("Moderate tone divergence (%d/100)", divergence)
	}

	return &core.Finding{
		Summary: summary,
		Payload: map[string]any{
			"divergence_score":  divergence,
			"promotional_hits":  promo,
			"substantive_hits":  substantive,
		},
		Confidence: 0.55,
	}, nil
}
