package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// AnalystStep adapts a core.Analyst to the uniform step contract: a
// per-call timeout, a panic fence, confidence clamping, and conversion
// of every failure into an error-kind output. Invoke never returns an
// error and never lets a panic escape.
type AnalystStep struct {
	analyst core.Analyst
	timeout time.Duration
	logger  *logging.Logger
}

// Option configures an AnalystStep.
type Option func(*AnalystStep)

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *AnalystStep) { s.timeout = d }
}

// WithLogger sets the step logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *AnalystStep) { s.logger = l }
}

// NewAnalystStep wraps an analyst as a step.
func NewAnalystStep(analyst core.Analyst, opts ...Option) *AnalystStep {
	s := &AnalystStep{
		analyst: analyst,
		timeout: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the analyst name as the step identifier.
func (s *AnalystStep) ID() string { return s.analyst.Name() }

// Meta reports false: analyst steps are analytical.
func (s *AnalystStep) Meta() bool { return false }

// Invoke runs the analyst against the snapshot.
func (s *AnalystStep) Invoke(ctx context.Context, snap core.Snapshot) (out core.AgentOutput) {
	out = core.AgentOutput{StepID: s.ID(), Timestamp: time.Now()}

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithStep(s.ID()).Error("step panicked", "panic", fmt.Sprint(r))
			out = core.AgentOutput{
				StepID:    s.ID(),
				Summary:   fmt.Sprintf("step panicked: %v", r),
				ErrorKind: string(core.ErrCatStep),
				Timestamp: time.Now(),
			}
		}
	}()

	stepCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	finding, err := s.analyst.Analyze(stepCtx, snap)
	if err != nil {
		out.Summary = err.Error()
		out.ErrorKind = errorKind(err, stepCtx)
		return out
	}
	if finding == nil {
		out.Summary = "analyst returned no finding"
		out.ErrorKind = string(core.ErrCatStep)
		return out
	}

	out.Summary = finding.Summary
	out.Payload = finding.Payload
	out.Confidence = clamp01(finding.Confidence)

	// Evidence travels in the payload so the step contract stays a
	// single returned output; the executor lifts it onto the record.
	if len(finding.Evidence) > 0 {
		if out.Payload == nil {
			out.Payload = map[string]any{}
		}
		out.Payload[core.EvidencePayloadKey] = finding.Evidence
	}
	return out
}

func errorKind(err error, ctx context.Context) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return string(core.ErrCatTimeout)
	}
	switch core.GetCategory(err) {
	case core.ErrCatScoring:
		return string(core.ErrCatScoring)
	case core.ErrCatTimeout:
		return string(core.ErrCatTimeout)
	default:
		return string(core.ErrCatStep)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
