package analysts

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// RealtimeAnalyst checks for fresh signals about the subject. Without a
// live feed it reports the monitoring window status from the evidence
// already gathered; its vote carries low weight by design of its
// confidence.
type RealtimeAnalyst struct{}

func NewRealtimeAnalyst() *RealtimeAnalyst { return &RealtimeAnalyst{} }

func (a *RealtimeAnalyst) Name() string { return "realtime_monitoring" }

func (a *RealtimeAnalyst) Analyze(ctx context.Context, snap core.Snapshot) (*core.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrStep("REALTIME_MONITORING_CANCELED", "realtime monitoring canceled").WithCause(err)
	}

	recent := 0
	for _, ev := range snap.Evidence {
		if ev.Source == "News Coverage" || ev.Source == "NGO Assessment" {
			recent++
		}
	}

	summary := fmt.Sprintf("Monitoring window: %d recent signal(s) for %s", recent, snap.Subject)
	confidence := 0.4
	if recent > 0 {
		confidence = 0.5
	}

	return &core.Finding{
		Summary: summary,
		Payload: map[string]any{
			"recent_signals": recent,
		},
		Confidence: confidence,
	}, nil
}
