package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	simulateCategory string
	simulatePriority string
	simulateTitle    string
	simulateMessage  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "模拟注入一条告警并走完整告警链路",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateTitle == "" {
			return errors.New("--title 不能为空")
		}
		return getApp().SimulateAlert(cmd.Context(), simulateCategory, simulatePriority, simulateTitle, simulateMessage)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateCategory, "category", "market", "告警类别 (flight, market, weather, currency)")
	simulateCmd.Flags().StringVar(&simulatePriority, "priority", "medium", "告警级别 (high, medium, low)")
	simulateCmd.Flags().StringVar(&simulateTitle, "title", "", "告警标题")
	simulateCmd.Flags().StringVar(&simulateMessage, "message", "", "告警正文")
}
