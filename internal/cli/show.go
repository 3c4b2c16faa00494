package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skydeck/internal/app"
)

var (
	showLimit int
	showPrune time.Duration
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display recently archived alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}
		if showPrune < 0 {
			return fmt.Errorf("--prune-older-than must not be negative")
		}

		opts := app.ShowOptions{
			Limit:          showLimit,
			PruneOlderThan: showPrune,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of alerts to display")
	showCmd.Flags().DurationVar(&showPrune, "prune-older-than", 0, "Delete archived alerts older than this age before listing (e.g. 720h)")
}
