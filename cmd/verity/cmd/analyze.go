package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/analysts"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/service/report"
)

var (
	analyzeSubject string
	analyzeSector  string
	analyzeJSON    bool
	analyzeRender  bool
	analyzeNoSave  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [claim text]",
	Short: "Analyze an environmental claim for greenwashing risk",
	Long: `Analyze routes the claim through the pipeline and prints the verdict.

The sector is auto-detected from the subject when not given explicitly;
detection is keyword-based and falls back to General.`,
	Example: `  verity analyze --subject "Acme Corp" "We are 100% sustainable"
  verity analyze --subject "Shell" --sector "Energy" --render "Net zero by 2050"
  verity analyze --subject "Acme" --json "Carbon neutral by 2030" | jq .final_verdict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSubject, "subject", "s", "",
		"company or entity making the claim (required)")
	analyzeCmd.Flags().StringVar(&analyzeSector, "sector", "",
		"industry sector (auto-detected from subject when empty)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"print the full analysis record as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeRender, "render", false,
		"render the markdown report in the terminal (deep path only)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false,
		"skip persisting the run to the audit store")
	_ = analyzeCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	claim := strings.Join(args, " ")

	sector := analyzeSector
	if sector == "" {
		sector = analysts.DetectSector(analyzeSubject)
	}

	runner, store, err := buildRunner(cfg, logger, !analyzeNoSave)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = state.CloseStore(store) }()
	}

	rec, err := runner.Analyze(cmd.Context(), analyzeSubject, claim, sector)
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	printVerdict(rec)

	if rec.Report != "" && !analyzeNoSave {
		if path, err := report.NewWriter(".verity/reports").Write(rec); err == nil {
			fmt.Println(labelStyle.Render("Report:"), path)
		} else {
			logger.Warn("report file not written", "error", err)
		}
	}

	if analyzeRender && rec.Report != "" {
		rendered, err := glamour.Render(rec.Report, "dark")
		if err != nil {
			// Fall back to the raw markdown.
			fmt.Println(rec.Report)
			return nil
		}
		fmt.Print(rendered)
	}
	return nil
}

var (
	verdictStyles = map[core.RiskLevel]lipgloss.Style{
		core.RiskLow:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		core.RiskModerate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		core.RiskHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
	labelStyle = lipgloss.NewStyle().Faint(true)
	noteStyle  = lipgloss.NewStyle().Italic(true)
)

func printVerdict(rec *core.AnalysisRecord) {
	v := rec.FinalVerdict
	if v == nil {
		return
	}

	level := verdictStyles[v.RiskLevel].Render(string(v.RiskLevel))
	fmt.Printf("\n%s %s  %s %.0f%%  %s %s\n",
		labelStyle.Render("Risk:"), level,
		labelStyle.Render("Confidence:"), v.Confidence*100,
		labelStyle.Render("Path:"), rec.SelectedPath)

	if v.Escalation != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Escalated:"), noteStyle.Render(v.Escalation))
	}
	if v.Downgrade != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Downgraded:"), noteStyle.Render(v.Downgrade))
	}
	if rec.Truncated {
		fmt.Println(noteStyle.Render("Run deadline expired; verdict rests on partial results."))
	}
	fmt.Printf("%s %s  %s %d evidence item(s), %d audit entries\n\n",
		labelStyle.Render("Run:"), rec.RunID,
		labelStyle.Render("Trail:"), v.EvidenceCount, len(rec.Outputs))
}
