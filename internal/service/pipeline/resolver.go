package pipeline

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/logging"
)

// Resolver runs the consensus state machine: NO_CONFLICT ends
// immediately; otherwise a bounded number of debate rounds precedes a
// confidence-weighted vote. Consensus runs at most once per run.
type Resolver struct {
	arguer    core.Arguer
	maxRounds int
	logger    *logging.Logger
}

// NewResolver creates a resolver. maxRounds below 1 falls back to 3.
func NewResolver(arguer core.Arguer, maxRounds int, logger *logging.Logger) *Resolver {
	if maxRounds < 1 {
		maxRounds = 3
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{arguer: arguer, maxRounds: maxRounds, logger: logger}
}

// Resolve detects conflicts among the analytical positions and, when
// found, debates and votes. The result is recorded on the record and a
// consensus output is appended.
func (r *Resolver) Resolve(ctx context.Context, rec *core.AnalysisRecord) error {
	if rec.Consensus != nil {
		return core.ErrInvariant("CONSENSUS_ALREADY_SET",
			fmt.Sprintf("consensus already resolved for run %s", rec.RunID))
	}

	log := r.logger.WithRun(string(rec.RunID))
	positions := extractPositions(rec)

	if !hasConflict(positions) {
		result := unanimousResult(positions)
		rec.Consensus = result
		rec.AppendOutput(core.AgentOutput{
			StepID:  "consensus_resolver",
			Summary: "All analytical positions agree, no debate required",
			Payload: map[string]any{
				"winning_verdict": string(result.WinningVerdict),
				"conflict_ratio":  result.ConflictRatio,
				"rounds":          0,
			},
			Confidence: result.ConsensusConfidence,
			Meta:       true,
		})
		log.Info("consensus: no conflict", "verdict", string(result.WinningVerdict))
		return nil
	}

	// CONFLICT_DETECTED: every position holder argues each round.
	var history []core.Argument
	rounds := 0
	for round := 1; round <= r.maxRounds; round++ {
		if ctx.Err() != nil {
			break
		}
		args := r.runRound(ctx, rec, positions, history, round)
		history = append(history, args...)
		rounds = round
	}

	result := resolveByVoting(positions, len(history))
	result.Rounds = rounds
	rec.Consensus = result

	// Adopt the winning verdict and consensus confidence.
	rec.RiskLevel = result.WinningVerdict
	rec.Confidence = result.ConsensusConfidence

	rec.AppendOutput(core.AgentOutput{
		StepID: "consensus_resolver",
		Summary: fmt.Sprintf("Debate resolved %s after %d round(s), %d argument(s), conflict ratio %.2f",
			result.WinningVerdict, rounds, result.ArgumentCount, result.ConflictRatio),
		Payload: map[string]any{
			"winning_verdict":      string(result.WinningVerdict),
			"consensus_confidence": result.ConsensusConfidence,
			"vote_distribution":    voteDistributionPayload(result.VoteDistribution),
			"conflicting_steps":    result.ConflictingStepIDs,
			"conflict_ratio":       result.ConflictRatio,
			"rounds":               rounds,
			"arguments":            argumentsPayload(history),
		},
		Confidence: result.ConsensusConfidence,
		Meta:       true,
	})

	log.Info("consensus: resolved by vote",
		"verdict", string(result.WinningVerdict),
		"conflict_ratio", result.ConflictRatio,
		"rounds", rounds)
	return nil
}

// runRound collects one argument per position. Steps within a round are
// independent, so argumentation runs concurrently; appends are ordered
// by step ID for determinism.
func (r *Resolver) runRound(ctx context.Context, rec *core.AnalysisRecord,
	positions []core.Position, history []core.Argument, round int) []core.Argument {

	window := history
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	args := make([]core.Argument, len(positions))
	ok := make([]bool, len(positions))

	g, gctx := errgroup.WithContext(ctx)
	for i, pos := range positions {
		g.Go(func() error {
			text, err := r.arguer.Argue(gctx, core.ArgueRequest{
				Subject:       rec.Subject,
				ClaimText:     rec.ClaimText,
				Sector:        rec.Sector,
				Position:      pos,
				Opposing:      opposing(positions, pos.StepID),
				RecentHistory: window,
				Round:         round,
				MaxRounds:     r.maxRounds,
			})
			if err != nil {
				// A failed argument drops out of the round; the debate
				// continues with the rest.
				r.logger.Warn("argument generation failed",
					"step", pos.StepID, "round", round, "error", err)
				return nil
			}
			args[i] = core.Argument{
				Round:   round,
				StepID:  pos.StepID,
				Verdict: string(pos.Verdict),
				Text:    text,
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	var out []core.Argument
	for i := range args {
		if ok[i] {
			out = append(out, args[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StepID < out[j].StepID })
	return out
}

// extractPositions collects the latest position per analytical step in
// first-appearance order.
func extractPositions(rec *core.AnalysisRecord) []core.Position {
	latest := map[string]core.AgentOutput{}
	var order []string
	for _, o := range rec.Outputs {
		if o.Meta {
			continue
		}
		if _, seen := latest[o.StepID]; !seen {
			order = append(order, o.StepID)
		}
		latest[o.StepID] = o
	}

	var positions []core.Position
	for _, id := range order {
		if pos, ok := core.ExtractPosition(latest[id]); ok {
			positions = append(positions, pos)
		}
	}
	return positions
}

func hasConflict(positions []core.Position) bool {
	if len(positions) < 2 {
		return false
	}
	first := positions[0].Verdict
	for _, p := range positions[1:] {
		if p.Verdict != first {
			return true
		}
	}
	return false
}

// unanimousResult covers the NO_CONFLICT arm.
func unanimousResult(positions []core.Position) *core.ConsensusResult {
	verdict := core.RiskModerate
	confidence := 0.5
	if len(positions) > 0 {
		verdict = positions[0].Verdict
		var sum float64
		for _, p := range positions {
			sum += p.Confidence
		}
		confidence = sum / float64(len(positions))
	}
	return &core.ConsensusResult{
		WinningVerdict:      verdict,
		ConsensusConfidence: confidence,
		VoteDistribution:    map[core.RiskLevel]int{},
		ConflictRatio:       0,
		Rounds:              0,
	}
}

// resolveByVoting applies the confidence-weighted vote. Each position
// casts floor(confidence*10) votes for its verdict.
func resolveByVoting(positions []core.Position, argumentCount int) *core.ConsensusResult {
	votes := map[core.RiskLevel]int{}
	rawConfidence := map[core.RiskLevel]float64{}
	for _, p := range positions {
		votes[p.Verdict] += int(p.Confidence * 10)
		rawConfidence[p.Verdict] += p.Confidence
	}

	totalVotes := 0
	for _, n := range votes {
		totalVotes += n
	}
	if totalVotes == 0 {
		return &core.ConsensusResult{
			WinningVerdict:      core.RiskModerate,
			ConsensusConfidence: 0.5,
			VoteDistribution:    votes,
			ConflictRatio:       0,
			ArgumentCount:       argumentCount,
		}
	}

	winner := pickWinner(votes, rawConfidence)
	winningVotes := votes[winner]

	confidence := float64(winningVotes) / float64(totalVotes)
	bonus := float64(argumentCount) * 0.01
	if bonus > 0.10 {
		bonus = 0.10
	}
	confidence += bonus
	if confidence > 0.95 {
		confidence = 0.95
	}

	var conflicting []string
	for _, p := range positions {
		if p.Verdict != winner {
			conflicting = append(conflicting, p.StepID)
		}
	}
	sort.Strings(conflicting)

	ratio := float64(len(conflicting)) / float64(len(positions))
	if ratio >= 0.60 {
		confidence *= 1 - ratio*0.30
	}

	return &core.ConsensusResult{
		WinningVerdict:      winner,
		ConsensusConfidence: confidence,
		VoteDistribution:    votes,
		ConflictingStepIDs:  conflicting,
		ConflictRatio:       ratio,
		ArgumentCount:       argumentCount,
	}
}

// pickWinner selects the plurality verdict. Ties break toward the
// verdict with higher aggregate raw confidence, then toward MODERATE.
func pickWinner(votes map[core.RiskLevel]int, rawConfidence map[core.RiskLevel]float64) core.RiskLevel {
	best := core.RiskModerate
	bestVotes := -1
	for _, level := range []core.RiskLevel{core.RiskModerate, core.RiskLow, core.RiskHigh} {
		n, ok := votes[level]
		if !ok {
			continue
		}
		switch {
		case n > bestVotes:
			best, bestVotes = level, n
		case n == bestVotes:
			if rawConfidence[level] > rawConfidence[best] {
				best = level
			}
		}
	}
	return best
}

func opposing(positions []core.Position, stepID string) []core.Position {
	var out []core.Position
	for _, p := range positions {
		if p.StepID != stepID {
			out = append(out, p)
		}
	}
	return out
}

func voteDistributionPayload(votes map[core.RiskLevel]int) map[string]int {
	out := make(map[string]int, len(votes))
	for level, n := range votes {
		out[string(level)] = n
	}
	return out
}

func argumentsPayload(history []core.Argument) []map[string]any {
	out := make([]map[string]any, 0, len(history))
	for _, a := range history {
		out = append(out, map[string]any{
			"round":   a.Round,
			"step_id": a.StepID,
			"verdict": a.Verdict,
			"text":    a.Text,
		})
	}
	return out
}
