package cli

import (
	"github.com/spf13/cobra"

	"skydeck/internal/app"
)

var (
	notificationsFilter string
	notificationsYes    bool
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Inspect the stored notification collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Notifications(cmd.Context(), app.NotificationOptions{
			Filter: notificationsFilter,
		})
	},
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ClearNotifications(cmd.Context(), app.NotificationOptions{
			Confirm: notificationsYes,
		})
	},
}

func init() {
	notificationsCmd.Flags().StringVar(&notificationsFilter, "filter", "all", "Filter: all, unread, or a category (flight, market, weather, currency)")
	notificationsClearCmd.Flags().BoolVar(&notificationsYes, "yes", false, "Confirm deleting all notifications")
	notificationsCmd.AddCommand(notificationsClearCmd)
}
