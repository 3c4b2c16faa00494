package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"skydeck/internal/notify"
)

// Notifications prints the stored notification collection.
func (a *App) Notifications(ctx context.Context, opts NotificationOptions) error {
	store, closeKV, err := a.newKV(ctx)
	if err != nil {
		return err
	}
	defer closeKV()

	notifications := notify.Open(ctx, store, a.Config.Notifications.StorageKey, a.Logger)

	items := notifications.List(notify.Filter(opts.Filter))
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "no notifications")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTime (UTC)\tType\tPriority\tRead\tTitle")
	for _, n := range items {
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%s\t%t\t%s\n",
			n.ID,
			n.CreatedAt.UTC().Format(time.RFC3339),
			n.Category,
			n.Priority,
			n.Read,
			n.Title,
		)
	}
	writer.Flush()

	counts := notifications.Counts()
	fmt.Fprintf(os.Stdout, "%d total, %d unread, %d high priority\n", counts.Total, counts.Unread, counts.HighPriority)
	return nil
}

// ClearNotifications empties the stored collection. Refuses to run
// without explicit confirmation.
func (a *App) ClearNotifications(ctx context.Context, opts NotificationOptions) error {
	if !opts.Confirm {
		return errors.New("refusing to clear notifications without --yes")
	}

	store, closeKV, err := a.newKV(ctx)
	if err != nil {
		return err
	}
	defer closeKV()

	notifications := notify.Open(ctx, store, a.Config.Notifications.StorageKey, a.Logger)
	before := notifications.Counts().Total
	if err := notifications.DeleteAll(ctx); err != nil {
		return err
	}

	a.Logger.Info().Int("removed", before).Msg("notifications cleared")
	return nil
}
