package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

type stubScorer struct {
	score float64
	err   error
}

func (s stubScorer) Score(ctx context.Context, claimText, subject string) (float64, error) {
	return s.score, s.err
}

func TestRouter_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  core.Path
	}{
		{"zero", 0.0, core.PathFast},
		{"just below fast bound", 0.29, core.PathFast},
		{"fast bound is standard", 0.3, core.PathStandard},
		{"mid", 0.5, core.PathStandard},
		{"just below deep bound", 0.69, core.PathStandard},
		{"deep bound", 0.7, core.PathDeep},
		{"one", 1.0, core.PathDeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(stubScorer{score: tt.score}, nil)
			rec := core.NewAnalysisRecord("Acme", "claim", "")

			got := router.Route(context.Background(), rec)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, rec.SelectedPath)
			assert.Equal(t, tt.score, rec.ComplexityScore)
		})
	}
}

func TestRouter_MonotonicInScore(t *testing.T) {
	prev := -1
	for score := 0.0; score <= 1.0; score += 0.05 {
		router := NewRouter(stubScorer{score: score}, nil)
		rec := core.NewAnalysisRecord("Acme", "claim", "")
		path := router.Route(context.Background(), rec)

		rank := map[core.Path]int{core.PathFast: 0, core.PathStandard: 1, core.PathDeep: 2}[path]
		require.GreaterOrEqual(t, rank, prev, "path rank regressed at score %.2f", score)
		prev = rank
	}
}

func TestRouter_ClampsOutOfRangeScores(t *testing.T) {
	router := NewRouter(stubScorer{score: 1.7}, nil)
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	assert.Equal(t, core.PathDeep, router.Route(context.Background(), rec))
	assert.Equal(t, 1.0, rec.ComplexityScore)

	router = NewRouter(stubScorer{score: -0.4}, nil)
	rec = core.NewAnalysisRecord("Acme", "claim", "")
	assert.Equal(t, core.PathFast, router.Route(context.Background(), rec))
	assert.Equal(t, 0.0, rec.ComplexityScore)
}

func TestRouter_ScorerFailureDefaultsToStandard(t *testing.T) {
	router := NewRouter(stubScorer{err: errors.New("model unavailable")}, nil)
	rec := core.NewAnalysisRecord("Acme", "claim", "")

	got := router.Route(context.Background(), rec)

	assert.Equal(t, core.PathStandard, got)
	assert.Equal(t, 0.5, rec.ComplexityScore)

	require.Len(t, rec.Outputs, 1)
	out := rec.Outputs[0]
	assert.Equal(t, "complexity_router", out.StepID)
	assert.True(t, out.Meta)
	assert.Equal(t, string(core.ErrCatScoring), out.ErrorKind)
}

func TestRouter_CustomThresholds(t *testing.T) {
	router := NewRouter(stubScorer{score: 0.5}, nil).WithThresholds(0.6, 0.9)
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	assert.Equal(t, core.PathFast, router.Route(context.Background(), rec))

	// Invalid bounds are ignored.
	router = NewRouter(stubScorer{score: 0.5}, nil).WithThresholds(0.9, 0.2)
	rec = core.NewAnalysisRecord("Acme", "claim", "")
	assert.Equal(t, core.PathStandard, router.Route(context.Background(), rec))
}

func TestRoutingTable_BandsOrderedByBound(t *testing.T) {
	table := routingTable(0.3, 0.7)
	require.Len(t, table, 2)
	assert.Equal(t, routeBand{below: 0.3, path: core.PathFast}, table[0])
	assert.Equal(t, routeBand{below: 0.7, path: core.PathStandard}, table[1])
	assert.Less(t, table[0].below, table[1].below)
}

func TestRouter_AppendsRoutingOutput(t *testing.T) {
	router := NewRouter(stubScorer{score: 0.8}, nil)
	rec := core.NewAnalysisRecord("Acme", "claim", "")
	router.Route(context.Background(), rec)

	require.Len(t, rec.Outputs, 1)
	out := rec.Outputs[0]
	assert.Equal(t, "complexity_router", out.StepID)
	assert.True(t, out.Meta)
	assert.False(t, out.Failed())
	assert.Equal(t, 0.8, out.Payload["complexity_score"])
	assert.Equal(t, "deep", out.Payload["selected_path"])
}
