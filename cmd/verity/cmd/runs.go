package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the persisted audit log",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted analysis runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := state.NewAuditStore(cfg.Store.Backend, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = state.CloseStore(store) }()

		summaries, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSUBJECT\tSECTOR\tPATH\tRISK\tCONFIDENCE\tCREATED")
		for _, s := range summaries {
			flags := ""
			if s.Truncated {
				flags = " (truncated)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\t%.0f%%\t%s\n",
				s.RunID, s.Subject, s.Sector, s.Path, s.RiskLevel, flags,
				s.Confidence*100, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one run's full record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := state.NewAuditStore(cfg.Store.Backend, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = state.CloseStore(store) }()

		rec, err := store.LoadRun(cmd.Context(), core.RunID(args[0]))
		if err != nil {
			return err
		}
		if rec == nil {
			return core.ErrNotFound("run", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a persisted run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := state.NewAuditStore(cfg.Store.Backend, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = state.CloseStore(store) }()

		if err := store.DeleteRun(cmd.Context(), core.RunID(args[0])); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
