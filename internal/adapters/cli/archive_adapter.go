package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/milestones/internal/ports/primary"
)

// ArchiveAdapter is a thin adapter that translates CLI operations to ArchiveService calls.
type ArchiveAdapter struct {
	service primary.ArchiveService
	out     io.Writer
}

// NewArchiveAdapter creates a new ArchiveAdapter with the given service.
func NewArchiveAdapter(service primary.ArchiveService, out io.Writer) *ArchiveAdapter {
	return &ArchiveAdapter{
		service: service,
		out:     out,
	}
}

// Import archives an extract.
func (a *ArchiveAdapter) Import(ctx context.Context, path, period string) error {
	snapshot, err := a.service.ImportSnapshot(ctx, primary.ImportSnapshotRequest{Path: path, Period: period})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Archived %s: %d record(s) from %s\n", snapshot.Period, snapshot.RecordCount, snapshot.Source)
	return nil
}

// List lists archived snapshots.
func (a *ArchiveAdapter) List(ctx context.Context) error {
	snapshots, err := a.service.ListSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(a.out, "No snapshots archived")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-8s %-8s %-20s %s\n", "PERIOD", "RECORDS", "IMPORTED", "SOURCE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, s := range snapshots {
		fmt.Fprintf(a.out, "%-8s %-8d %-20s %s\n", s.Period, s.RecordCount, s.ImportedAt, s.Source)
	}
	fmt.Fprintln(a.out)
	return nil
}
