package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies an analysis run.
type RunID string

// NewRunID generates a new random run ID.
func NewRunID() RunID {
	return RunID("run-" + uuid.NewString()[:8])
}

// RiskLevel classifies the greenwashing risk of a claim.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// ValidRiskLevel checks if a risk level string is valid.
func ValidRiskLevel(r RiskLevel) bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	default:
		return false
	}
}

// ParseRiskLevel converts a string to a RiskLevel with validation.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidRiskLevel(r) {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return r, nil
}

// Severity returns the numeric ordering of a risk level (LOW=0 .. HIGH=2).
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

// Evidence is a single piece of external evidence contributed by a step.
type Evidence struct {
	Source      string    `json:"source"`
	Title       string    `json:"title,omitempty"`
	Snippet     string    `json:"snippet,omitempty"`
	URL         string    `json:"url,omitempty"`
	Credibility float64   `json:"credibility,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// AgentOutput is one entry in the run's append-only audit trail.
// Immutable once appended.
type AgentOutput struct {
	StepID     string         `json:"step_id"`
	Summary    string         `json:"summary,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Confidence float64        `json:"confidence"`
	ErrorKind  string         `json:"error_kind,omitempty"`
	// Meta marks non-analytical outputs (routing, consensus, monitoring,
	// reporting). Meta outputs are excluded from position extraction and
	// confidence aggregation.
	Meta      bool      `json:"meta,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Failed reports whether the step that produced this output failed.
func (o AgentOutput) Failed() bool {
	return o.ErrorKind != ""
}

// EvidencePayloadKey is the payload key under which a step attaches
// evidence items for the executor to lift onto the record.
const EvidencePayloadKey = "evidence_items"

// EvidenceItems returns the evidence attached to this output, if any.
func (o AgentOutput) EvidenceItems() []Evidence {
	if o.Payload == nil {
		return nil
	}
	items, _ := o.Payload[EvidencePayloadKey].([]Evidence)
	return items
}

// FinalVerdict is the synthesized outcome of a run. Set exactly once.
type FinalVerdict struct {
	RiskLevel     RiskLevel `json:"risk_level"`
	Confidence    float64   `json:"confidence"`
	Escalation    string    `json:"escalation,omitempty"`
	Downgrade     string    `json:"downgrade,omitempty"`
	Sources       []string  `json:"sources,omitempty"`
	EvidenceCount int       `json:"evidence_count"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// AnalysisRecord is the shared mutable document threaded through every
// step of a run. Each run owns exactly one instance; there is no shared
// state across concurrent runs.
type AnalysisRecord struct {
	RunID RunID `json:"run_id"`

	// Immutable input fields.
	Subject   string `json:"subject"`
	ClaimText string `json:"claim_text"`
	Sector    string `json:"sector,omitempty"`

	// Set once by the router, never mutated after.
	ComplexityScore float64 `json:"complexity_score"`
	SelectedPath    Path    `json:"selected_path,omitempty"`

	// Evidence accumulated by steps. Append-only.
	Evidence []Evidence `json:"evidence,omitempty"`

	// Mutated by the confidence monitor and verdict synthesizer only.
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level,omitempty"`

	// Outputs is the append-only audit trail. Entries are never removed
	// or reordered.
	Outputs []AgentOutput `json:"outputs"`

	// Revision loop state, owned by the confidence monitor.
	IterationCount int  `json:"iteration_count"`
	NeedsRevision  bool `json:"needs_revision"`

	// Consensus is set at most once per run, by the consensus resolver.
	Consensus *ConsensusResult `json:"consensus,omitempty"`

	// FinalVerdict is set exactly once, after the monitor finalizes.
	FinalVerdict *FinalVerdict `json:"final_verdict,omitempty"`

	Report string `json:"report,omitempty"`

	// Truncated marks a run whose deadline expired before all steps ran.
	Truncated bool `json:"truncated,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewAnalysisRecord creates a record for a new run.
func NewAnalysisRecord(subject, claimText, sector string) *AnalysisRecord {
	return &AnalysisRecord{
		RunID:     NewRunID(),
		Subject:   subject,
		ClaimText: claimText,
		Sector:    sector,
		CreatedAt: time.Now(),
	}
}

// Validate checks record invariants on the input fields.
func (r *AnalysisRecord) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return ErrValidation("SUBJECT_REQUIRED", "subject cannot be empty")
	}
	if strings.TrimSpace(r.ClaimText) == "" {
		return ErrValidation("CLAIM_REQUIRED", "claim text cannot be empty")
	}
	return nil
}

// AppendOutput appends an entry to the audit trail, stamping the time if
// the step did not.
func (r *AnalysisRecord) AppendOutput(o AgentOutput) {
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	r.Outputs = append(r.Outputs, o)
}

// AppendEvidence appends evidence items to the record.
func (r *AnalysisRecord) AppendEvidence(items ...Evidence) {
	r.Evidence = append(r.Evidence, items...)
}

// LatestOutput returns the most recent output for a step, if any.
func (r *AnalysisRecord) LatestOutput(stepID string) (AgentOutput, bool) {
	for i := len(r.Outputs) - 1; i >= 0; i-- {
		if r.Outputs[i].StepID == stepID {
			return r.Outputs[i], true
		}
	}
	return AgentOutput{}, false
}

// AnalyticalOutputs returns all non-meta outputs in append order.
func (r *AnalysisRecord) AnalyticalOutputs() []AgentOutput {
	var outs []AgentOutput
	for _, o := range r.Outputs {
		if !o.Meta {
			outs = append(outs, o)
		}
	}
	return outs
}

// SetFinalVerdict records the final verdict. It may only be called once.
func (r *AnalysisRecord) SetFinalVerdict(v *FinalVerdict) error {
	if r.FinalVerdict != nil {
		return ErrInvariant("VERDICT_ALREADY_SET",
			fmt.Sprintf("final verdict already set for run %s", r.RunID))
	}
	r.FinalVerdict = v
	now := time.Now()
	r.CompletedAt = &now
	return nil
}

// Snapshot is the read-only view of a record handed to steps. Slices are
// copies so a step cannot mutate the record other than through its
// returned AgentOutput.
type Snapshot struct {
	RunID           RunID
	Subject         string
	ClaimText       string
	Sector          string
	ComplexityScore float64
	SelectedPath    Path
	Evidence        []Evidence
	Outputs         []AgentOutput
	IterationCount  int
}

// Snapshot returns a copy of the record for step invocation.
func (r *AnalysisRecord) Snapshot() Snapshot {
	ev := make([]Evidence, len(r.Evidence))
	copy(ev, r.Evidence)
	outs := make([]AgentOutput, len(r.Outputs))
	copy(outs, r.Outputs)
	return Snapshot{
		RunID:           r.RunID,
		Subject:         r.Subject,
		ClaimText:       r.ClaimText,
		Sector:          r.Sector,
		ComplexityScore: r.ComplexityScore,
		SelectedPath:    r.SelectedPath,
		Evidence:        ev,
		Outputs:         outs,
		IterationCount:  r.IterationCount,
	}
}

// LatestOutput returns the most recent output for a step within the
// snapshot, if any.
func (s Snapshot) LatestOutput(stepID string) (AgentOutput, bool) {
	for i := len(s.Outputs) - 1; i >= 0; i-- {
		if s.Outputs[i].StepID == stepID {
			return s.Outputs[i], true
		}
	}
	return AgentOutput{}, false
}

// Duration returns how long the run took, or has taken so far.
func (r *AnalysisRecord) Duration() time.Duration {
	end := time.Now()
	if r.CompletedAt != nil {
		end = *r.CompletedAt
	}
	return end.Sub(r.CreatedAt)
}
