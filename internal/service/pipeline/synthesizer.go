package pipeline

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// Synthesizer produces the final verdict from the scored record. A rule
// cascade escalates or downgrades the risk level the scorer produced;
// every escalation multiplies confidence down, every downgrade caps it.
type Synthesizer struct {
	logger *logging.Logger
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(logger *logging.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{logger: logger}
}

// Synthesize applies the verdict cascade and records the final verdict.
// Called exactly once per run, after the monitor's last pass.
func (s *Synthesizer) Synthesize(rec *core.AnalysisRecord) error {
	log := s.logger.WithRun(string(rec.RunID))

	// The record's risk level, when already set, is the cascade's base:
	// after a debate it carries the consensus winning verdict. Otherwise
	// fall back to the risk scorer's latest level.
	level := core.RiskModerate
	if rec.RiskLevel != "" {
		level = rec.RiskLevel
	} else if out, ok := rec.LatestOutput("risk_scoring"); ok && !out.Failed() {
		if v, ok := out.Payload["risk_level"].(string); ok {
			if parsed, err := core.ParseRiskLevel(v); err == nil {
				level = parsed
			}
		}
	}
	confidence := rec.Confidence

	claim := rec.ClaimText
	var escalation, downgrade string

	// Pattern rules form an if/elif chain: the first matching family wins.
	switch {
	case core.MatchesAbsolutePattern(claim) && !core.IsLegitimateCarbonClaim(claim):
		level = core.RiskHigh
		confidence = capAt(confidence*0.60, 0.75)
		escalation = "absolute claim language is physically implausible without substantiation"

	case core.IsLegitimateCarbonClaim(claim) && level != core.RiskLow:
		level = core.RiskLow
		confidence = capAt(confidence*1.10, 0.85)
		downgrade = "recognized carbon accounting terminology with metrics and target date"

	default:
		level, confidence, escalation = applyHistoricalRules(rec, level, confidence)
	}

	// The remaining rules fire independently, each only while the verdict
	// still sits at MODERATE.
	if level == core.RiskModerate {
		if n := latestPayloadInt(rec, "contradiction_analysis", "contradictions_count"); n >= 3 {
			level = core.RiskHigh
			confidence *= 0.75
			escalation = fmt.Sprintf("%d contradictions found in evidence", n)
		}
	}
	if level == core.RiskModerate && rec.Consensus != nil && rec.Consensus.ConflictRatio >= 0.60 {
		level = core.RiskHigh
		confidence *= 0.75
		escalation = fmt.Sprintf("high analyst disagreement (conflict ratio %.2f)", rec.Consensus.ConflictRatio)
	}
	if level == core.RiskModerate && core.HasSuperlative(claim) {
		level = core.RiskHigh
		confidence *= 0.70
		escalation = "unverified superlative marketing language"
	}
	if level == core.RiskModerate &&
		core.IsHighRiskSector(rec.Sector) &&
		core.VagueKeywordCount(claim) >= 2 &&
		!core.HasHardMetrics(claim) {
		level = core.RiskHigh
		confidence *= 0.80
		escalation = fmt.Sprintf("vague claims without hard metrics in high-risk sector %s", rec.Sector)
	}

	verdict := &core.FinalVerdict{
		RiskLevel:     level,
		Confidence:    clamp01(confidence),
		Escalation:    escalation,
		Downgrade:     downgrade,
		Sources:       evidenceSources(rec),
		EvidenceCount: len(rec.Evidence),
		GeneratedAt:   time.Now(),
	}
	if err := rec.SetFinalVerdict(verdict); err != nil {
		return err
	}
	rec.RiskLevel = level
	rec.Confidence = verdict.Confidence

	rec.AppendOutput(core.AgentOutput{
		StepID:  "verdict_synthesis",
		Summary: fmt.Sprintf("Final verdict %s with confidence %.2f", level, verdict.Confidence),
		Payload: map[string]any{
			"risk_level":     string(level),
			"escalation":     escalation,
			"downgrade":      downgrade,
			"evidence_count": verdict.EvidenceCount,
		},
		Confidence: verdict.Confidence,
		Meta:       true,
	})

	log.Info("verdict synthesized",
		"risk_level", string(level),
		"confidence", verdict.Confidence,
		"escalated", escalation != "")
	return nil
}

// applyHistoricalRules escalates based on the temporal analysis of the
// subject's track record. Rules are ordered; the first match wins.
func applyHistoricalRules(rec *core.AnalysisRecord, level core.RiskLevel, confidence float64) (core.RiskLevel, float64, string) {
	out, ok := rec.LatestOutput("temporal_analysis")
	if !ok || out.Failed() {
		return level, confidence, ""
	}

	reputation := payloadInt(out.Payload, "reputation_score")
	violations := payloadInt(out.Payload, "past_violations")
	accusations := payloadInt(out.Payload, "prior_accusations")
	pattern := payloadBool(out.Payload, "pattern_detected")
	declining := payloadBool(out.Payload, "declining_trend")
	reactive := payloadBool(out.Payload, "reactive_claims")

	switch {
	case reputation < 40 && violations >= 1:
		return core.RiskHigh, capAt(confidence*0.70, 0.80),
			fmt.Sprintf("low reputation (%d) with %d past violations", reputation, violations)
	case pattern && accusations >= 2:
		return core.RiskHigh, capAt(confidence*0.65, 0.75),
			fmt.Sprintf("repeated greenwashing pattern with %d prior accusations", accusations)
	case declining && level == core.RiskModerate:
		return core.RiskHigh, confidence * 0.80, "declining environmental performance trend"
	case reactive && level == core.RiskModerate:
		return core.RiskHigh, confidence * 0.75, "claims appear reactive to recent criticism"
	}
	return level, confidence, ""
}

func latestPayloadInt(rec *core.AnalysisRecord, stepID, key string) int {
	out, ok := rec.LatestOutput(stepID)
	if !ok || out.Failed() {
		return 0
	}
	return payloadInt(out.Payload, key)
}

func payloadInt(payload map[string]any, key string) int {
	switch n := payload[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func payloadBool(payload map[string]any, key string) bool {
	b, _ := payload[key].(bool)
	return b
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func evidenceSources(rec *core.AnalysisRecord) []string {
	seen := map[string]bool{}
	var sources []string
	for _, ev := range rec.Evidence {
		if ev.Source == "" || seen[ev.Source] {
			continue
		}
		seen[ev.Source] = true
		sources = append(sources, ev.Source)
	}
	return sources
}
