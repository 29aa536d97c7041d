package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Init writes a commented .verity.yaml to the current directory.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		const path = ".verity.yaml"
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.AtomicWrite(path, []byte(config.DefaultConfigYAML)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("Wrote", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
