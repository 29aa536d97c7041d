package core

import (
	"context"
	"time"
)

// =============================================================================
// Analyst Port
// =============================================================================

// Finding is the normalized result of one external analysis call.
// Payload is opaque to the orchestrator except via declared extraction
// hooks (ExtractPosition); all domain interpretation lives in the analyst.
type Finding struct {
	Summary    string
	Payload    map[string]any
	Confidence float64
	Evidence   []Evidence
}

// Analyst is the external analysis call boundary. Implementations may
// call LLMs, scrape data sources, or apply local heuristics; the
// orchestrator only sees the normalized Finding.
type Analyst interface {
	// Name returns the analyst identifier (e.g., "risk_scoring").
	Name() string

	// Analyze runs the analysis against a read-only record snapshot.
	Analyze(ctx context.Context, snap Snapshot) (*Finding, error)
}

// =============================================================================
// Step Port
// =============================================================================

// Step is the uniform invocation contract the path executor operates on.
// Invoke never panics past its boundary and never returns an error: any
// failure from the underlying analyst is converted into an AgentOutput
// with ErrorKind set and confidence 0.
type Step interface {
	// ID returns the step identifier used in the audit trail.
	ID() string

	// Meta reports whether this step's outputs are non-analytical
	// (excluded from voting and confidence aggregation).
	Meta() bool

	// Invoke runs the step against a record snapshot.
	Invoke(ctx context.Context, snap Snapshot) AgentOutput
}

// StepRegistry manages registered steps.
type StepRegistry interface {
	// Register adds a step to the registry.
	Register(step Step) error

	// Get retrieves a step by ID.
	Get(id string) (Step, error)

	// List returns all registered step IDs in registration order.
	List() []string
}

// =============================================================================
// Complexity Scoring Port
// =============================================================================

// ComplexityScorer scores claim complexity in [0,1]. Implementations
// should fail closed; the router defaults to 0.5 and clamps out-of-range
// values regardless.
type ComplexityScorer interface {
	Score(ctx context.Context, claimText, subject string) (float64, error)
}

// =============================================================================
// Argumentation Port
// =============================================================================

// ArgueRequest carries the context for one argumentation call during a
// debate round.
type ArgueRequest struct {
	Subject   string
	ClaimText string
	Sector    string
	Position  Position
	Opposing  []Position
	// RecentHistory is a condensed window of the last arguments from
	// prior rounds.
	RecentHistory []Argument
	Round         int
	MaxRounds     int
}

// Arguer produces a free-form argument for a step's position. The
// returned text is an opaque audit artifact, never parsed for control
// decisions.
type Arguer interface {
	Argue(ctx context.Context, req ArgueRequest) (string, error)
}

// =============================================================================
// AuditStore Port
// =============================================================================

// RunSummary provides a lightweight view of a persisted run for listing.
type RunSummary struct {
	RunID      RunID     `json:"run_id"`
	Subject    string    `json:"subject"`
	Sector     string    `json:"sector,omitempty"`
	Path       Path      `json:"path,omitempty"`
	RiskLevel  RiskLevel `json:"risk_level,omitempty"`
	Confidence float64   `json:"confidence"`
	Truncated  bool      `json:"truncated,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditStore persists finalized analysis records. The orchestrator core
// has no dependency on storage; hosts wire a store to keep an audit log.
type AuditStore interface {
	// SaveRun persists a record.
	SaveRun(ctx context.Context, record *AnalysisRecord) error

	// LoadRun retrieves a record by run ID.
	// Returns nil and no error if the run doesn't exist.
	LoadRun(ctx context.Context, id RunID) (*AnalysisRecord, error)

	// ListRuns returns summaries of all persisted runs, newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)

	// DeleteRun removes a persisted run.
	DeleteRun(ctx context.Context, id RunID) error
}
