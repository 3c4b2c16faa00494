package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/storage"
)

// Show prints recently archived alerts, optionally pruning old rows
// first.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	audit, closeAudit, err := a.openAudit(ctx)
	if err != nil {
		return err
	}
	if audit == nil {
		return errors.New("database not configured; cannot show archived alerts")
	}
	defer closeAudit()

	return renderAlerts(ctx, os.Stdout, audit, opts, a.Logger)
}

func renderAlerts(ctx context.Context, w io.Writer, audit storage.AlertAuditStore, opts ShowOptions, logger zerolog.Logger) error {
	if opts.PruneOlderThan > 0 {
		cutoff := time.Now().UTC().Add(-opts.PruneOlderThan)
		if err := audit.DeleteAlertsBefore(ctx, cutoff); err != nil {
			return err
		}
		logger.Info().Time("cutoff", cutoff).Msg("pruned archived alerts")
	}

	total, err := audit.CountAlerts(ctx)
	if err != nil {
		return err
	}

	records, err := audit.ListRecentAlerts(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "no archived alerts found")
		return nil
	}

	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tCategory\tPriority\tTitle\tMessage")

	for _, rec := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.Category,
			rec.Priority,
			rec.Title,
			sanitizeInline(rec.Message),
		)
	}
	writer.Flush()

	fmt.Fprintf(w, "%d of %d archived alerts shown\n", len(records), total)
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
