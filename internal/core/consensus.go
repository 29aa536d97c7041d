package core

import "strings"

// Position is a step's stance extracted from its latest output for voting
// purposes. Ephemeral: recomputed each time the resolver runs, never stored
// on the record.
type Position struct {
	StepID     string
	Verdict    RiskLevel
	Confidence float64
	Rationale  string
}

// Argument is one debate contribution from a conflicting step.
type Argument struct {
	Round   int    `json:"round"`
	StepID  string `json:"step_id"`
	Verdict string `json:"verdict"`
	Text    string `json:"text"`
}

// ConsensusResult is the outcome of conflict resolution. Produced at most
// once per run and consumed immediately by the confidence monitor.
type ConsensusResult struct {
	WinningVerdict      RiskLevel         `json:"winning_verdict"`
	ConsensusConfidence float64           `json:"consensus_confidence"`
	VoteDistribution    map[RiskLevel]int `json:"vote_distribution"`
	ConflictingStepIDs  []string          `json:"conflicting_step_ids"`
	ConflictRatio       float64           `json:"conflict_ratio"`
	Rounds              int               `json:"rounds"`
	ArgumentCount       int               `json:"argument_count"`
}

var (
	highIndicators = []string{"high risk", "severe", "critical", "major concern"}
	lowIndicators  = []string{"low risk", "minimal", "acceptable", "verified"}
)

// ExtractPosition derives a voting position from an output. It returns
// false for meta outputs and failed steps, which carry no vote. The
// verdict comes from the payload's risk_level field when the step declared
// one; otherwise it is inferred from risk indicators in the summary text.
func ExtractPosition(o AgentOutput) (Position, bool) {
	if o.Meta || o.Failed() {
		return Position{}, false
	}

	pos := Position{
		StepID:     o.StepID,
		Verdict:    RiskModerate,
		Confidence: o.Confidence,
		Rationale:  o.Summary,
	}

	if v, ok := o.Payload["risk_level"]; ok {
		if s, ok := v.(string); ok {
			if level, err := ParseRiskLevel(s); err == nil {
				pos.Verdict = level
				return pos, true
			}
		}
		if level, ok := v.(RiskLevel); ok && ValidRiskLevel(level) {
			pos.Verdict = level
			return pos, true
		}
	}

	// Contradiction counts imply a verdict even without an explicit level.
	if v, ok := o.Payload["contradictions_count"]; ok {
		if n, ok := asInt(v); ok {
			switch {
			case n > 2:
				pos.Verdict = RiskHigh
			case n > 0:
				pos.Verdict = RiskModerate
			default:
				pos.Verdict = RiskLow
			}
			return pos, true
		}
	}

	pos.Verdict = inferVerdict(o.Summary)
	return pos, true
}

// inferVerdict scans free text for risk indicators.
func inferVerdict(text string) RiskLevel {
	lower := strings.ToLower(text)
	for _, w := range highIndicators {
		if strings.Contains(lower, w) {
			return RiskHigh
		}
	}
	for _, w := range lowIndicators {
		if strings.Contains(lower, w) {
			return RiskLow
		}
	}
	return RiskModerate
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
