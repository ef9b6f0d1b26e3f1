package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the effective settings after merging defaults, config file, FONTPREVIEW_* env vars, and flags.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	fmt.Print(formatConfig(cfg))
	return nil
}
