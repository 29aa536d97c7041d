// Package report renders finalized analysis records as markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// Generator renders an analysis record into a markdown report suitable
// for terminal rendering or archival next to the audit record.
type Generator struct{}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the record. It requires a finalized record; rendering
// an unfinished run is a programming error.
func (g *Generator) Generate(rec *core.AnalysisRecord) (string, error) {
	if rec.FinalVerdict == nil {
		return "", core.ErrInvariant("REPORT_BEFORE_VERDICT",
			fmt.Sprintf("report requested before verdict for run %s", rec.RunID))
	}

	var b strings.Builder
	v := rec.FinalVerdict

	fmt.Fprintf(&b, "# Greenwashing Risk Analysis: %s\n\n", rec.Subject)
	fmt.Fprintf(&b, "**Run** `%s`", rec.RunID)
	if rec.Sector != "" {
		fmt.Fprintf(&b, " · **Sector** %s", rec.Sector)
	}
	fmt.Fprintf(&b, " · **Path** %s\n\n", rec.SelectedPath)

	fmt.Fprintf(&b, "> %s\n\n", rec.ClaimText)

	b.WriteString("## Verdict\n\n")
	fmt.Fprintf(&b, "| Risk Level | Confidence | Evidence |\n|---|---|---|\n| **%s** | %.0f%% | %d item(s) |\n\n",
		v.RiskLevel, v.Confidence*100, v.EvidenceCount)
	if v.Escalation != "" {
		fmt.Fprintf(&b, "**Escalated**: %s\n\n", v.Escalation)
	}
	if v.Downgrade != "" {
		fmt.Fprintf(&b, "**Downgraded**: %s\n\n", v.Downgrade)
	}
	if rec.Truncated {
		b.WriteString("**Note**: the run deadline expired before all analyses completed; " +
			"this verdict rests on partial results.\n\n")
	}

	g.writeAnalyses(&b, rec)
	g.writeConsensus(&b, rec)
	g.writeEvidence(&b, rec)

	fmt.Fprintf(&b, "---\n\n*Complexity %.2f · %d audit entries · generated %s*\n",
		rec.ComplexityScore, len(rec.Outputs), v.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return b.String(), nil
}

func (g *Generator) writeAnalyses(b *strings.Builder, rec *core.AnalysisRecord) {
	outputs := rec.AnalyticalOutputs()
	if len(outputs) == 0 {
		return
	}
	b.WriteString("## Analyses\n\n")

	// Latest output per step, in first-appearance order.
	latest := map[string]core.AgentOutput{}
	var order []string
	for _, o := range outputs {
		if _, seen := latest[o.StepID]; !seen {
			order = append(order, o.StepID)
		}
		latest[o.StepID] = o
	}

	for _, id := range order {
		o := latest[id]
		if o.Failed() {
			fmt.Fprintf(b, "- **%s**: _failed (%s)_\n", id, o.ErrorKind)
			continue
		}
		fmt.Fprintf(b, "- **%s** (%.0f%%): %s\n", id, o.Confidence*100, o.Summary)
	}
	b.WriteString("\n")
}

func (g *Generator) writeConsensus(b *strings.Builder, rec *core.AnalysisRecord) {
	c := rec.Consensus
	if c == nil {
		return
	}
	b.WriteString("## Consensus\n\n")
	if c.Rounds == 0 {
		fmt.Fprintf(b, "All analysts agreed on **%s** without debate.\n\n", c.WinningVerdict)
		return
	}

	fmt.Fprintf(b, "Resolved **%s** after %d debate round(s) and %d argument(s) "+
		"(conflict ratio %.2f).\n\n", c.WinningVerdict, c.Rounds, c.ArgumentCount, c.ConflictRatio)

	levels := make([]core.RiskLevel, 0, len(c.VoteDistribution))
	for level := range c.VoteDistribution {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Severity() < levels[j].Severity() })
	for _, level := range levels {
		fmt.Fprintf(b, "- %s: %d vote(s)\n", level, c.VoteDistribution[level])
	}
	if len(c.ConflictingStepIDs) > 0 {
		fmt.Fprintf(b, "\nDissenting analysts: %s\n", strings.Join(c.ConflictingStepIDs, ", "))
	}
	b.WriteString("\n")
}

func (g *Generator) writeEvidence(b *strings.Builder, rec *core.AnalysisRecord) {
	if len(rec.Evidence) == 0 {
		return
	}
	b.WriteString("## Evidence\n\n")
	for _, ev := range rec.Evidence {
		fmt.Fprintf(b, "- **%s**", ev.Source)
		if ev.Title != "" {
			fmt.Fprintf(b, ": %s", ev.Title)
		}
		if ev.Credibility > 0 {
			fmt.Fprintf(b, " (credibility %.2f)", ev.Credibility)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
