package cmd

import (
	"fmt"

	"github.com/fontpreview/fontpreview/internal/adapters/bbolt"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently served previews",
	Long:  "Shows the characters and families of recent previews, newest first. Fails if a running preview holds the history lock.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of entries to show (default from config)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.HistoryPath == "" {
		fmt.Println("⚡ history is disabled (no history_path)")
		return nil
	}

	store, err := bbolt.NewStore(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyClear {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("⚡ history cleared")
		return nil
	}

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.HistoryLimit
	}
	entries, err := store.List(limit)
	if err != nil {
		return err
	}
	fmt.Print(formatHistory(entries))
	return nil
}
