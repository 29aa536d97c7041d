package analysts

import (
	"context"
	"strings"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// HeuristicScorer scores claim complexity from lexical signals.
// Factor weights: quantitative specificity 0.1, temporal clarity 0.2,
// verifiability 0.3, ambiguity 0.2, scope 0.2.
type HeuristicScorer struct{}

// NewHeuristicScorer creates a complexity scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

var verifiableDomains = []string{
	"emission", "carbon", "energy", "waste", "water",
	"recycl", "renewable", "plastic", "deforestation",
}

var broadScopeMarkers = []string{
	"all ", "entire", "across", "operations", "supply chain", "every",
}

// Score returns a complexity in [0,1].
func (s *HeuristicScorer) Score(ctx context.Context, claimText, subject string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, core.ErrScoring("complexity scoring canceled").WithCause(err)
	}
	if strings.TrimSpace(claimText) == "" {
		return 0, core.ErrScoring("empty claim text")
	}

	lower := strings.ToLower(claimText)
	score := 0.0

	if core.HasMetrics(claimText) {
		score += 0.1
	}
	if core.HasTargetYear(claimText) {
		score += 0.2
	}
	for _, domain := range verifiableDomains {
		if strings.Contains(lower, domain) {
			score += 0.3
			break
		}
	}

	vague := core.VagueKeywordCount(claimText)
	if vague >= 2 {
		score += 0.2
	} else if vague == 1 {
		score += 0.1
	}

	for _, marker := range broadScopeMarkers {
		if strings.Contains(lower, marker) {
			score += 0.2
			break
		}
	}
	if core.HasSuperlative(claimText) || core.MatchesAbsolutePattern(claimText) {
		score += 0.1
	}

	if score > 1 {
		score = 1
	}
	return score, nil
}
