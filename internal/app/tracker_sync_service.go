package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/ports/secondary"
)

const (
	// TestPlanLead is how far ahead of the milestone a test plan is due.
	TestPlanLead = 45 * 24 * time.Hour

	testCampaignPrefix = "LDM-503"
)

// TrackerSyncServiceImpl implements the TrackerSyncService interface.
type TrackerSyncServiceImpl struct {
	tracker secondary.Tracker
	ledger  secondary.SyncLedger
	logger  *slog.Logger
	now     func() time.Time
}

// NewTrackerSyncService creates a new TrackerSyncService with injected dependencies.
// ledger may be nil to skip recording.
func NewTrackerSyncService(tracker secondary.Tracker, ledger secondary.SyncLedger, logger *slog.Logger) *TrackerSyncServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackerSyncServiceImpl{
		tracker: tracker,
		ledger:  ledger,
		logger:  logger,
		now:     time.Now,
	}
}

// Sync pushes due dates for every milestone linked to an issue.
func (s *TrackerSyncServiceImpl) Sync(ctx context.Context, c collection.Reader, req primary.SyncRequest) (*primary.SyncReport, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("no tracker configured")
	}

	milestones := c.All()
	collection.SortByWBSCode(milestones)

	report := &primary.SyncReport{}
	for _, ms := range milestones {
		if strings.HasPrefix(ms.Code, testCampaignPrefix) {
			if ms.Jira == "" {
				report.Warnings = append(report.Warnings, s.warn(ms.Code, "no jira issue"))
			}
			if ms.Due == nil {
				report.Warnings = append(report.Warnings, s.warn(ms.Code, "no due date"))
			}
		}
		if ms.Due == nil {
			continue
		}

		if ms.Jira != "" {
			action, err := s.push(ctx, ms.Code, ms.Jira, secondary.SyncKindMilestone, *ms.Due, req.DryRun)
			if err != nil {
				return nil, err
			}
			report.Actions = append(report.Actions, *action)
		}
		if ms.JiraTestPlan != "" {
			due := ms.Due.Add(-TestPlanLead)
			action, err := s.push(ctx, ms.Code, ms.JiraTestPlan, secondary.SyncKindTestPlan, due, req.DryRun)
			if err != nil {
				return nil, err
			}
			report.Actions = append(report.Actions, *action)
		}
	}

	return report, nil
}

func (s *TrackerSyncServiceImpl) warn(code, reason string) string {
	s.logger.Warn("test campaign milestone cannot be synced", "code", code, "reason", reason)
	return fmt.Sprintf("%s: %s", code, reason)
}

func (s *TrackerSyncServiceImpl) push(ctx context.Context, code, key, kind string, due time.Time, dryRun bool) (*primary.SyncAction, error) {
	current, err := s.tracker.GetDueDate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read due date of %s: %w", key, err)
	}

	action := &primary.SyncAction{
		MilestoneCode: code,
		IssueKey:      key,
		Kind:          kind,
		PreviousDue:   current,
		Due:           due,
		Changed:       current == nil || models.FormatDate(current) != due.Format(models.DateLayout),
	}
	if !action.Changed {
		s.logger.Debug("due date up to date", "issue", key, "due", due.Format(models.DateLayout))
		return action, nil
	}

	if !dryRun {
		if err := s.tracker.SetDueDate(ctx, key, due); err != nil {
			return nil, fmt.Errorf("failed to set due date of %s: %w", key, err)
		}
		if err := s.tracker.AddComment(ctx, key, SyncComment(key, due)); err != nil {
			return nil, fmt.Errorf("failed to comment on %s: %w", key, err)
		}
		action.Applied = true
	}
	s.logger.Info("due date pushed", "issue", key, "code", code, "due", due.Format(models.DateLayout), "dry_run", dryRun)

	if s.ledger != nil {
		entry := &secondary.SyncRecord{
			MilestoneCode: code,
			IssueKey:      key,
			Kind:          kind,
			PreviousDue:   models.FormatDate(current),
			Due:           due.Format(models.DateLayout),
			DryRun:        dryRun,
			SyncedAt:      s.now().UTC().Format(time.RFC3339),
		}
		if err := s.ledger.Record(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to record sync of %s: %w", key, err)
		}
	}
	return action, nil
}

// SyncComment is the comment left on an issue whose due date was changed.
func SyncComment(key string, due time.Time) string {
	return fmt.Sprintf("Setting due date on %s to %s from P6", key, due.Format(models.DateLayout))
}

// History lists recorded syncs.
func (s *TrackerSyncServiceImpl) History(ctx context.Context, filters primary.SyncHistoryFilters) ([]*primary.SyncEntry, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("no sync ledger configured")
	}
	records, err := s.ledger.List(ctx, secondary.SyncFilters{
		MilestoneCode: filters.MilestoneCode,
		IssueKey:      filters.IssueKey,
		Limit:         filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list syncs: %w", err)
	}

	entries := make([]*primary.SyncEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.SyncEntry{
			MilestoneCode: r.MilestoneCode,
			IssueKey:      r.IssueKey,
			Kind:          r.Kind,
			PreviousDue:   r.PreviousDue,
			Due:           r.Due,
			DryRun:        r.DryRun,
			SyncedAt:      r.SyncedAt,
		}
	}
	return entries, nil
}

// Ensure TrackerSyncServiceImpl implements the interface
var _ primary.TrackerSyncService = (*TrackerSyncServiceImpl)(nil)
