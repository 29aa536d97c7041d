package analysts

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// PeerAnalyst compares the claim against sector peers. Unverified
// superlatives ("world's leading") are the main signal: a superlative
// with no metrics cannot be checked against peer performance.
type PeerAnalyst struct{}

func NewPeerAnalyst() *PeerAnalyst { return &PeerAnalyst{} }

func (a *PeerAnalyst) Name() string { return "peer_comparison" }

func (a *PeerAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("PEER_COMPARISON_CANCELED", "peer comparison canceled").WithCause(err)
	}

	usesSuperlative := core.HasSuperlative(snap.ClaimText)
	verified := core.HasMetrics(snap.ClaimText) && core.HasTargetYear(snap.ClaimText)

	unverifiedSuperlatives := 0
	if usesSuperlative && !verified {
		unverifiedSuperlatives = 1
	}

	summary := "Claim positions subject within sector norms"
	confidence := 0.6
	if unverifiedSuperlatives > 0 {
		summary = fmt.Sprintf("Unverified superlative claim against %s peers, major concern for comparability",
			displaySector(snap.Sector))
		confidence = 0.55
	} else if usesSuperlative {
		summary = "Superlative claim backed by dated metrics, comparable against peers"
		confidence = 0.65
	}

	return &core.Finding{
		Summary: summary,
		Payload: map[string]any{
			"uses_superlative":        usesSuperlative,
			"verified_against_peers":  verified,
			"unverified_superlatives": unverifiedSuperlatives,
		},
		Confidence: confidence,
	}, nil
}

func displaySector(sector string) string {
	if sector == "" {
		return "General"
	}
	return sector
}
