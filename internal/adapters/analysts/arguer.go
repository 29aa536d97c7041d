package analysts

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// TemplateArguer produces debate arguments from a fixed template. The
// output is an audit artifact only; the resolver never parses it for
// control decisions.
type TemplateArguer struct{}

func NewTemplateArguer() *TemplateArguer { return &TemplateArguer{} }

func (a *TemplateArguer) Argue(ctx context.Context, req core.ArgueRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.ErrStep("ARGUMENT_CANCELED", "argument generation canceled").WithCause(err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s defends a %s risk verdict (confidence %.0f%%) for %s's claim",
		req.Position.StepID, req.Position.Verdict, req.Position.Confidence*100, req.Subject)
	if req.Sector != "" {
		fmt.Fprintf(&b, " in the %s sector", req.Sector)
	}
	b.WriteString(". ")

	if req.Position.Rationale != "" {
		fmt.Fprintf(&b, "Basis: %s. ", truncate(req.Position.Rationale, 150))
	}

	if len(req.Opposing) > 0 {
		var views []string
		for _, op := range req.Opposing {
			views = append(views, fmt.Sprintf("%s holds %s at %.0f%%",
				op.StepID, op.Verdict, op.Confidence*100))
		}
		fmt.Fprintf(&b, "Against opposing views (%s), ", strings.Join(views, "; "))
	}

	fmt.Fprintf(&b, "round %d/%d maintains the position on the recorded evidence",
		req.Round, req.MaxRounds)

	if len(req.RecentHistory) > 0 {
		b.WriteString(", noting prior arguments: ")
		window := req.RecentHistory
		if len(window) > 3 {
			window = window[len(window)-3:]
		}
		var prior []string
		for _, arg := range window {
			prior = append(prior, fmt.Sprintf("%s (%s)", arg.StepID, truncate(arg.Text, 150)))
		}
		b.WriteString(strings.Join(prior, "; "))
	}
	b.WriteString(".")

	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
