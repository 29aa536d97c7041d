package core

import "testing"

func TestExtractPosition_SkipsMetaAndFailed(t *testing.T) {
	if _, ok := ExtractPosition(AgentOutput{StepID: "router", Meta: true}); ok {
		t.Fatalf("meta output should carry no position")
	}
	if _, ok := ExtractPosition(AgentOutput{StepID: "s", ErrorKind: "step_failure"}); ok {
		t.Fatalf("failed output should carry no position")
	}
}

func TestExtractPosition_ExplicitRiskLevel(t *testing.T) {
	out := AgentOutput{
		StepID:     "risk_scoring",
		Summary:    "scored",
		Payload:    map[string]any{"risk_level": "high"},
		Confidence: 0.8,
	}
	pos, ok := ExtractPosition(out)
	if !ok {
		t.Fatalf("expected a position")
	}
	if pos.Verdict != RiskHigh {
		t.Fatalf("expected HIGH, got %s", pos.Verdict)
	}
	if pos.Confidence != 0.8 || pos.StepID != "risk_scoring" {
		t.Fatalf("position fields not carried over: %+v", pos)
	}
}

func TestExtractPosition_ContradictionCounts(t *testing.T) {
	tests := []struct {
		count any
		want  RiskLevel
	}{
		{3, RiskHigh},
		{int64(4), RiskHigh},
		{float64(1), RiskModerate},
		{0, RiskLow},
	}
	for _, tt := range tests {
		out := AgentOutput{
			StepID:     "contradiction_check",
			Payload:    map[string]any{"contradictions_count": tt.count},
			Confidence: 0.6,
		}
		pos, ok := ExtractPosition(out)
		if !ok {
			t.Fatalf("expected a position for count %v", tt.count)
		}
		if pos.Verdict != tt.want {
			t.Fatalf("count %v: expected %s, got %s", tt.count, tt.want, pos.Verdict)
		}
	}
}

func TestExtractPosition_InferredFromSummary(t *testing.T) {
	tests := []struct {
		summary string
		want    RiskLevel
	}{
		{"findings indicate severe discrepancies", RiskHigh},
		{"claims appear verified against filings", RiskLow},
		{"nothing conclusive either way", RiskModerate},
		{"major concern over missing data, but acceptable tone", RiskHigh},
	}
	for _, tt := range tests {
		pos, ok := ExtractPosition(AgentOutput{StepID: "s", Summary: tt.summary, Confidence: 0.5})
		if !ok {
			t.Fatalf("expected a position for %q", tt.summary)
		}
		if pos.Verdict != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.summary, tt.want, pos.Verdict)
		}
	}
}
