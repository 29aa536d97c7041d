package analysts

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// Component weights for the aggregate risk score. They sum to 1.0.
var componentWeights = map[string]float64{
	"claim_verification":     0.30,
	"evidence_quality":       0.15,
	"source_credibility":     0.15,
	"sentiment_divergence":   0.10,
	"historical_pattern":     0.15,
	"contradiction_severity": 0.15,
}

// RiskAnalyst aggregates the earlier analytical findings into a
// sector-adjusted risk score and a proposed risk level. High-baseline
// sectors get a lower bar for the HIGH rating.
type RiskAnalyst struct{}

func NewRiskAnalyst() *RiskAnalyst { return &RiskAnalyst{} }

func (a *RiskAnalyst) Name() string { return "risk_scoring" }

func (a *RiskAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("RISK_SCORING_CANCELED", "risk scoring canceled").WithCause(err)
	}

	components := a.components(snap)

	var base float64
	for key, weight := range componentWeights {
		score, ok := components[key]
		if !ok {
			score = 50
		}
		base += score * weight
	}

	baseline := sectorBaseline(snap.Sector)
	sectorAdjustment := float64(baseline-50) * 0.3

	peerModifier := 0.0
	if out, ok := snap.LatestOutput("peer_comparison"); ok && !out.Failed() {
		peerModifier = float64(payloadInt(out.Payload, "unverified_superlatives")) * 5.0
	}

	risk := base + sectorAdjustment + peerModifier
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}

	level, grade := riskLevelFor(risk, baseline)

	return &core.Finding{
		Summary: fmt.Sprintf("Aggregate risk %.1f/100 for %s sector, rated %s (%s)",
			risk, displaySector(snap.Sector), level, grade),
		Payload: map[string]any{
			"risk_level":        string(level),
			"risk_score":        risk,
			"base_score":        base,
			"sector_adjustment": sectorAdjustment,
			"peer_adjustment":   peerModifier,
			"rating_grade":      grade,
			"component_scores":  components,
		},
		Confidence: 0.85,
	}, nil
}

// components derives each 0-100 risk component (higher = riskier) from
// the earlier step outputs, with neutral defaults where a step failed.
func (a *RiskAnalyst) components(snap core.Snapshot) map[string]float64 {
	components := map[string]float64{}

	// Claim verification: driven by the contradiction verdict.
	// Unverifiable claims are penalized almost as hard as contradicted
	// ones.
	verification := 100.0
	contradictions := 0
	if out, ok := snap.LatestOutput("contradiction_analysis"); ok && !out.Failed() {
		contradictions = payloadInt(out.Payload, "contradictions_count")
		switch strings.ToLower(fmt.Sprint(out.Payload["overall_verdict"])) {
		case "contradicted":
			verification = 100
		case "unverifiable":
			verification = 85
		case "partially true":
			verification = 50
		case "verified":
			verification = 0
		}
	}
	// Vague claims with no numbers carry an extra penalty.
	if core.VagueKeywordCount(snap.ClaimText) >= 2 && !core.HasMetrics(snap.ClaimText) {
		verification += 20
	}
	if verification > 100 {
		verification = 100
	}
	components["claim_verification"] = verification

	// Evidence quality: more sources, lower risk.
	totalSources := len(snap.Evidence)
	switch {
	case totalSources >= 20:
		components["evidence_quality"] = 10
	case totalSources >= 15:
		components["evidence_quality"] = 20
	case totalSources >= 10:
		components["evidence_quality"] = 35
	case totalSources >= 5:
		components["evidence_quality"] = 60
	default:
		components["evidence_quality"] = 90
	}

	// Source credibility: inverse of the average credibility.
	if out, ok := snap.LatestOutput("credibility_analysis"); ok && !out.Failed() {
		avg := payloadFloat(out.Payload, "average_credibility")
		components["source_credibility"] = (1.0 - avg) * 100
	} else {
		components["source_credibility"] = 100
	}

	if out, ok := snap.LatestOutput("sentiment_analysis"); ok && !out.Failed() {
		components["sentiment_divergence"] = float64(payloadInt(out.Payload, "divergence_score"))
	} else {
		components["sentiment_divergence"] = 50
	}

	if out, ok := snap.LatestOutput("temporal_analysis"); ok && !out.Failed() {
		violations := payloadInt(out.Payload, "past_violations")
		accusations := payloadInt(out.Payload, "prior_accusations")
		reputation := payloadInt(out.Payload, "reputation_score")

		violationRisk := minf(100, float64(violations)*20)
		accusationRisk := minf(100, float64(accusations)*30)
		reputationRisk := float64(100 - reputation)
		components["historical_pattern"] = (violationRisk + accusationRisk + reputationRisk) / 3
	} else {
		components["historical_pattern"] = 50
	}

	components["contradiction_severity"] = minf(100, float64(contradictions)*30)

	return components
}

// riskLevelFor maps a risk score to a level and rating grade using
// sector-aware thresholds.
func riskLevelFor(risk float64, baseline int) (core.RiskLevel, string) {
	var highThreshold, moderateThreshold float64
	switch {
	case baseline >= 70:
		highThreshold, moderateThreshold = 45, 30
	case baseline >= 60:
		highThreshold, moderateThreshold = 55, 35
	case baseline >= 50:
		highThreshold, moderateThreshold = 65, 40
	default:
		highThreshold, moderateThreshold = 70, 45
	}

	switch {
	case risk >= highThreshold:
		if risk >= 80 {
			return core.RiskHigh, "CCC"
		}
		return core.RiskHigh, "B"
	case risk >= moderateThreshold:
		return core.RiskModerate, "BBB"
	default:
		switch {
		case risk <= 20:
			return core.RiskLow, "AAA"
		case risk <= 30:
			return core.RiskLow, "AA"
		default:
			return core.RiskLow, "A"
		}
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
