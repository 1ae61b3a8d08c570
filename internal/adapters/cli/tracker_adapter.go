package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
)

// TrackerAdapter is a thin adapter that translates CLI operations to TrackerSyncService calls.
type TrackerAdapter struct {
	service primary.TrackerSyncService
	out     io.Writer
}

// NewTrackerAdapter creates a new TrackerAdapter with the given service.
func NewTrackerAdapter(service primary.TrackerSyncService, out io.Writer) *TrackerAdapter {
	return &TrackerAdapter{
		service: service,
		out:     out,
	}
}

// Sync pushes due dates and prints one line per linked issue.
func (a *TrackerAdapter) Sync(ctx context.Context, c collection.Reader, dryRun bool) error {
	report, err := a.service.Sync(ctx, c, primary.SyncRequest{DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("failed to sync tracker: %w", err)
	}

	updated := 0
	for _, action := range report.Actions {
		if !action.Changed {
			continue
		}
		updated++
		marker := color.New(color.FgGreen).Sprint("✓")
		if !action.Applied {
			marker = color.New(color.FgYellow).Sprint("~")
		}
		previous := models.FormatDate(action.PreviousDue)
		if previous == "" {
			previous = "(none)"
		}
		fmt.Fprintf(a.out, "%s %-12s %-9s %-10s %s → %s\n",
			marker, action.IssueKey, action.Kind, action.MilestoneCode, previous, action.Due.Format(models.DateLayout))
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), w)
	}

	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}
	fmt.Fprintf(a.out, "%s %d of %d issue(s)\n", verb, updated, len(report.Actions))
	return nil
}

// History lists recorded syncs.
func (a *TrackerAdapter) History(ctx context.Context, code string, limit int) error {
	entries, err := a.service.History(ctx, primary.SyncHistoryFilters{MilestoneCode: code, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list sync history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No syncs recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-12s %-9s %-10s %-10s %s\n", "SYNCED", "ISSUE", "KIND", "PREVIOUS", "DUE", "MILESTONE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		milestone := e.MilestoneCode
		if e.DryRun {
			milestone += " (dry run)"
		}
		fmt.Fprintf(a.out, "%-20s %-12s %-9s %-10s %-10s %s\n", e.SyncedAt, e.IssueKey, e.Kind, e.PreviousDue, e.Due, milestone)
	}
	fmt.Fprintln(a.out)
	return nil
}
