// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
)

// MilestoneAdapter is a thin adapter that translates CLI operations to ScheduleService calls.
type MilestoneAdapter struct {
	service primary.ScheduleService
	out     io.Writer
}

// NewMilestoneAdapter creates a new MilestoneAdapter with the given service.
func NewMilestoneAdapter(service primary.ScheduleService, out io.Writer) *MilestoneAdapter {
	return &MilestoneAdapter{
		service: service,
		out:     out,
	}
}

// Load builds the reconciled collection.
func (a *MilestoneAdapter) Load(ctx context.Context, req primary.LoadRequest) (*primary.LoadResult, error) {
	result, err := a.service.Load(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, f := range result.Forecasts {
		if f.Warning != nil {
			fmt.Fprintf(a.out, "%s %v\n", color.New(color.FgYellow).Sprint("warning:"), f.Warning)
		}
	}
	return result, nil
}

// Show displays details for a single milestone.
func (a *MilestoneAdapter) Show(ctx context.Context, req primary.LoadRequest, code string, asOf time.Time) error {
	result, err := a.Load(ctx, req)
	if err != nil {
		return err
	}
	ms, ok := result.Collection.FindByCode(code)
	if !ok {
		return fmt.Errorf("milestone %s not found", code)
	}

	fmt.Fprintf(a.out, "\nMilestone: %s\n", ms.Code)
	fmt.Fprintf(a.out, "Name:      %s\n", ms.Name)
	if ms.ShortName != "" {
		fmt.Fprintf(a.out, "Short:     %s\n", ms.ShortName)
	}
	fmt.Fprintf(a.out, "WBS:       %s\n", ms.WBS)
	fmt.Fprintf(a.out, "Type:      %s\n", ms.TaskType)
	fmt.Fprintf(a.out, "Status:    %s%s\n", ms.Status, statusMarker(ms, asOf))
	fmt.Fprintf(a.out, "Due:       %s\n", models.FormatDate(ms.Due))
	fmt.Fprintf(a.out, "Forecast:  %s\n", models.FormatDate(ms.ForecastDue))
	if ms.Completed != nil {
		fmt.Fprintf(a.out, "Completed: %s\n", models.FormatDate(ms.Completed))
	}
	if ms.Jira != "" {
		fmt.Fprintf(a.out, "Jira:      %s\n", ms.Jira)
	}
	if ms.JiraTestPlan != "" {
		fmt.Fprintf(a.out, "Test plan: %s\n", ms.JiraTestPlan)
	}
	if len(ms.AKA) > 0 {
		fmt.Fprintf(a.out, "AKA:       %s\n", strings.Join(ms.AKA, ", "))
	}
	if ms.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", ms.Description)
	}
	if len(ms.Predecessors) > 0 {
		fmt.Fprintf(a.out, "\nPredecessors: %s\n", strings.Join(ms.Predecessors.Sorted(), " "))
	}
	if len(ms.Successors) > 0 {
		fmt.Fprintf(a.out, "Successors:   %s\n", strings.Join(ms.Successors.Sorted(), " "))
	}
	fmt.Fprintln(a.out)
	return nil
}

// List lists milestones matching any prefix and the WBS path.
func (a *MilestoneAdapter) List(ctx context.Context, req primary.LoadRequest, prefixes []string, wbs string, asOf time.Time) error {
	result, err := a.Load(ctx, req)
	if err != nil {
		return err
	}

	milestones := selectMilestones(result.Collection, prefixes, wbs)
	if len(milestones) == 0 {
		fmt.Fprintln(a.out, "No milestones found")
		return nil
	}
	collection.SortByDue(milestones)

	fmt.Fprintf(a.out, "\n%-14s %-10s %-10s %-10s %s\n", "CODE", "WBS", "DUE", "FORECAST", "NAME")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, ms := range milestones {
		fmt.Fprintf(a.out, "%-14s %-10s %-10s %-10s %s%s\n",
			ms.Code, ms.WBS, models.FormatDate(ms.Due), models.FormatDate(ms.ForecastDue), ms.DisplayName(), statusMarker(ms, asOf))
	}
	fmt.Fprintln(a.out)
	return nil
}

func selectMilestones(c collection.Reader, prefixes []string, wbs string) []*models.Milestone {
	var milestones []*models.Milestone
	if len(prefixes) > 0 {
		milestones = c.FilterByCodePrefix(prefixes...)
	} else {
		milestones = c.All()
	}
	if wbs == "" {
		return milestones
	}
	filtered := milestones[:0]
	for _, ms := range milestones {
		if ms.HasWBSPrefix(wbs) {
			filtered = append(filtered, ms)
		}
	}
	return filtered
}

func statusMarker(ms *models.Milestone, asOf time.Time) string {
	switch {
	case ms.IsCompleted():
		return color.New(color.FgGreen).Sprint(" ✓")
	case ms.IsDelayed(asOf):
		return color.New(color.FgRed).Sprint(" [delayed]")
	}
	return ""
}
