package cmd

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/analysts"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/steps"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/config"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/service/pipeline"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/service/report"
)

// buildRegistry registers every analyst as a step.
func buildRegistry(cfg *config.Config, logger *logging.Logger) (core.StepRegistry, error) {
	registry := steps.NewRegistry()
	stepOpts := []steps.Option{
		steps.WithTimeout(cfg.Pipeline.StepTimeoutDuration()),
		steps.WithLogger(logger),
	}

	for _, analyst := range []core.Analyst{
		analysts.NewClaimAnalyst(),
		analysts.NewEvidenceAnalyst(),
		analysts.NewContradictionAnalyst(),
		analysts.NewTemporalAnalyst(),
		analysts.NewPeerAnalyst(),
		analysts.NewCredibilityAnalyst(),
		analysts.NewSentimentAnalyst(),
		analysts.NewRealtimeAnalyst(),
		analysts.NewRiskAnalyst(),
	} {
		if err := registry.Register(steps.NewAnalystStep(analyst, stepOpts...)); err != nil {
			return nil, fmt.Errorf("registering %s: %w", analyst.Name(), err)
		}
	}
	return registry, nil
}

// buildRunner assembles the pipeline from configuration. The returned
// store may be nil when persistence is disabled.
func buildRunner(cfg *config.Config, logger *logging.Logger, persist bool) (*pipeline.Runner, core.AuditStore, error) {
	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	paths, err := pipeline.LoadPathDefinitions()
	if err != nil {
		return nil, nil, err
	}

	var store core.AuditStore
	opts := []pipeline.RunnerOption{
		pipeline.WithRunTimeout(cfg.Pipeline.RunTimeoutDuration()),
		pipeline.WithReportGenerator(report.NewGenerator()),
	}
	if persist {
		store, err = state.NewAuditStore(cfg.Store.Backend, cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening audit store: %w", err)
		}
		opts = append(opts, pipeline.WithAuditStore(store))
	}

	runner := pipeline.NewRunner(
		pipeline.NewRouter(analysts.NewHeuristicScorer(), logger).
			WithThresholds(cfg.Pipeline.FastThreshold, cfg.Pipeline.DeepThreshold),
		pipeline.NewExecutor(registry, logger),
		pipeline.NewResolver(analysts.NewTemplateArguer(), cfg.Debate.MaxRounds, logger),
		pipeline.NewMonitor(cfg.Pipeline.RevisionThreshold, cfg.Pipeline.MaxRevisions, logger),
		pipeline.NewSynthesizer(logger),
		paths,
		logger,
		opts...,
	)
	return runner, store, nil
}
