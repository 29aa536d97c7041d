package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/config"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/verity-ai/internal/service/pipeline"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local setup",
	Long: `Doctor verifies the configuration, the audit store, and the path
definitions, and prints a host resource snapshot.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	failed := false
	check := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("  ✗ %s: %v\n", name, err)
			return
		}
		fmt.Printf("  ✓ %s\n", name)
	}

	fmt.Println("Configuration:")
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Printf("  using %s\n", file)
	} else {
		fmt.Println("  no config file found, using defaults")
	}
	check("config valid", config.ValidateConfig(cfg))

	fmt.Println("Pipeline:")
	_, err := pipeline.LoadPathDefinitions()
	check("path definitions", err)

	fmt.Println("Audit store:")
	store, err := state.NewAuditStore(cfg.Store.Backend, cfg.Store.Path)
	check(fmt.Sprintf("%s backend at %s", cfg.Store.Backend, cfg.Store.Path), err)
	if err == nil {
		_, listErr := store.ListRuns(cmd.Context())
		check("readable", listErr)
		_ = state.CloseStore(store)
	}

	host := diagnostics.CollectHost()
	fmt.Println("Host:")
	fmt.Printf("  %s %s/%s, %d cores\n", host.GoVersion, host.GOOS, host.GOARCH, host.CPUCores)
	if host.MemTotalMB > 0 {
		fmt.Printf("  memory %.0f MB (%.0f%% used), disk free %.1f GB\n",
			host.MemTotalMB, host.MemPercent, host.DiskFreeGB)
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}
