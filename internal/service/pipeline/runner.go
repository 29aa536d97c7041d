package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// ReportGenerator renders a finalized record into a human-readable report.
type ReportGenerator interface {
	Generate(rec *core.AnalysisRecord) (string, error)
}

// Runner orchestrates a full analysis run: route, execute, resolve,
// monitor, revise, synthesize, report, persist.
type Runner struct {
	router      *Router
	executor    *Executor
	resolver    *Resolver
	monitor     *Monitor
	synthesizer *Synthesizer
	paths       map[core.Path]PathDefinition
	reporter    ReportGenerator
	store       core.AuditStore
	runTimeout  time.Duration
	logger      *logging.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithAuditStore enables persistence of finalized runs.
func WithAuditStore(store core.AuditStore) RunnerOption {
	return func(r *Runner) { r.store = store }
}

// WithReportGenerator enables report generation on the deep path.
func WithReportGenerator(gen ReportGenerator) RunnerOption {
	return func(r *Runner) { r.reporter = gen }
}

// WithRunTimeout bounds the total run duration. Zero disables the bound.
func WithRunTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.runTimeout = d }
}

// NewRunner assembles a runner from its phases.
func NewRunner(router *Router, executor *Executor, resolver *Resolver,
	monitor *Monitor, synthesizer *Synthesizer,
	paths map[core.Path]PathDefinition, logger *logging.Logger, opts ...RunnerOption) *Runner {

	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		router:      router,
		executor:    executor,
		resolver:    resolver,
		monitor:     monitor,
		synthesizer: synthesizer,
		paths:       paths,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Analyze runs the full pipeline for one claim. Step and scoring failures
// degrade confidence but never fail the run; only invalid input, invariant
// violations, and storage errors surface as errors. The returned record is
// complete even when err is nil and the run was truncated by its deadline.
func (r *Runner) Analyze(ctx context.Context, subject, claimText, sector string) (*core.AnalysisRecord, error) {
	if err := validateInput(subject, claimText); err != nil {
		return nil, err
	}

	rec := core.NewAnalysisRecord(strings.TrimSpace(subject), claimText, sector)
	log := r.logger.WithRun(string(rec.RunID))
	log.Info("analysis started", "subject", rec.Subject, "sector", rec.Sector)

	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	path := r.router.Route(ctx, rec)
	def, ok := r.paths[path]
	if !ok {
		return nil, core.ErrInvariant(core.CodeUnknownPath,
			fmt.Sprintf("no definition for path %s", path))
	}

	// Analytical loop: execute, resolve, assess. The monitor bounds the
	// number of passes; a revision re-runs the full step list against the
	// accumulated trail.
	for {
		r.executor.ExecuteSteps(ctx, rec, def.Steps)

		if def.Consensus && rec.Consensus == nil {
			if err := r.resolver.Resolve(ctx, rec); err != nil {
				return rec, err
			}
		}

		if err := r.monitor.Assess(rec); err != nil {
			return rec, err
		}
		if !rec.NeedsRevision || ctx.Err() != nil {
			break
		}
		log.Info("revision pass scheduled", "iteration", rec.IterationCount)
	}

	if err := r.synthesizer.Synthesize(rec); err != nil {
		return rec, err
	}

	if def.Report && r.reporter != nil {
		r.generateReport(rec)
	}

	if r.store != nil {
		if err := r.store.SaveRun(ctx, rec); err != nil {
			return rec, fmt.Errorf("persisting run %s: %w", rec.RunID, err)
		}
	}

	log.Info("analysis completed",
		"risk_level", string(rec.RiskLevel),
		"confidence", rec.Confidence,
		"outputs", len(rec.Outputs),
		"duration", rec.Duration().String())
	return rec, nil
}

// generateReport renders the report. Failure degrades to an error output;
// the verdict already stands.
func (r *Runner) generateReport(rec *core.AnalysisRecord) {
	report, err := r.reporter.Generate(rec)
	if err != nil {
		rec.AppendOutput(core.AgentOutput{
			StepID:    "report_generation",
			Summary:   "report generation failed: " + err.Error(),
			ErrorKind: string(core.ErrCatStep),
			Meta:      true,
		})
		r.logger.WithRun(string(rec.RunID)).Warn("report generation failed", "error", err)
		return
	}
	rec.Report = report
	rec.AppendOutput(core.AgentOutput{
		StepID:     "report_generation",
		Summary:    fmt.Sprintf("generated report (%d bytes)", len(report)),
		Confidence: 1,
		Meta:       true,
	})
}

func validateInput(subject, claimText string) error {
	if strings.TrimSpace(subject) == "" {
		return core.ErrValidation("SUBJECT_REQUIRED", "subject cannot be empty")
	}
	if strings.TrimSpace(claimText) == "" {
		return core.ErrValidation(core.CodeEmptyClaim, "claim text cannot be empty")
	}
	if len(claimText) > core.MaxClaimLength {
		return core.ErrValidation("CLAIM_TOO_LONG",
			fmt.Sprintf("claim text exceeds %d characters", core.MaxClaimLength))
	}
	return nil
}
