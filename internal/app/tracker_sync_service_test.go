package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/ports/secondary"
)

func newSyncCollection(t *testing.T) *collection.Collection {
	t.Helper()
	c, err := collection.New([]*models.Milestone{
		{Code: "DM-1", WBS: "02C.03", Due: date(2024, 3, 1), Jira: "DM-100"},
		{Code: "DM-2", WBS: "02C.04", Due: date(2024, 5, 1), Jira: "DM-200"},
		{Code: "LDM-503-1", WBS: "02C.01", Due: date(2024, 6, 30), Jira: "LVV-1", JiraTestPlan: "LVV-P1"},
		{Code: "LDM-503-2", WBS: "02C.01", Due: date(2024, 9, 1)},
		{Code: "LDM-503-3", WBS: "02C.01", Jira: "LVV-3"},
		{Code: "DLP-9", WBS: "02C.05"},
	}, nil)
	if err != nil {
		t.Fatalf("collection.New failed: %v", err)
	}
	return c
}

func newTestTrackerSyncService() (*TrackerSyncServiceImpl, *mockTracker, *mockSyncLedger) {
	tracker := newMockTracker()
	tracker.due["DM-100"] = date(2024, 3, 1) // already current
	tracker.due["DM-200"] = date(2024, 4, 1)
	ledger := &mockSyncLedger{}
	service := NewTrackerSyncService(tracker, ledger, quietLogger)
	service.now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }
	return service, tracker, ledger
}

func findAction(report *primary.SyncReport, key string) *primary.SyncAction {
	for i := range report.Actions {
		if report.Actions[i].IssueKey == key {
			return &report.Actions[i]
		}
	}
	return nil
}

func TestTrackerSyncService_Sync(t *testing.T) {
	service, tracker, ledger := newTestTrackerSyncService()
	c := newSyncCollection(t)

	report, err := service.Sync(context.Background(), c, primary.SyncRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.Actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(report.Actions))
	}

	tests := []struct {
		key     string
		kind    string
		due     string
		changed bool
	}{
		{"DM-100", secondary.SyncKindMilestone, "2024-03-01", false},
		{"DM-200", secondary.SyncKindMilestone, "2024-05-01", true},
		{"LVV-1", secondary.SyncKindMilestone, "2024-06-30", true},
		{"LVV-P1", secondary.SyncKindTestPlan, "2024-05-16", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			action := findAction(report, tt.key)
			if action == nil {
				t.Fatalf("no action for %s", tt.key)
			}
			if action.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", action.Kind, tt.kind)
			}
			if got := action.Due.Format(models.DateLayout); got != tt.due {
				t.Errorf("Due = %s, want %s", got, tt.due)
			}
			if action.Changed != tt.changed || action.Applied != tt.changed {
				t.Errorf("Changed/Applied = %v/%v, want %v", action.Changed, action.Applied, tt.changed)
			}
			if got := models.FormatDate(tracker.due[tt.key]); got != tt.due {
				t.Errorf("tracker due = %s, want %s", got, tt.due)
			}
		})
	}

	if got := tracker.comments["DM-200"]; len(got) != 1 || got[0] != "Setting due date on DM-200 to 2024-05-01 from P6" {
		t.Errorf("comments = %v", got)
	}
	if len(tracker.comments["DM-100"]) != 0 {
		t.Error("unchanged issue must not be commented on")
	}
	if tracker.sets != 3 {
		t.Errorf("SetDueDate called %d times, want 3", tracker.sets)
	}
	if len(ledger.entries) != 3 {
		t.Errorf("ledger has %d entries, want 3", len(ledger.entries))
	}
	if ledger.entries[0].SyncedAt != "2024-03-20T09:00:00Z" {
		t.Errorf("SyncedAt = %s", ledger.entries[0].SyncedAt)
	}
}

func TestTrackerSyncService_Warnings(t *testing.T) {
	service, _, _ := newTestTrackerSyncService()

	report, err := service.Sync(context.Background(), newSyncCollection(t), primary.SyncRequest{DryRun: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := map[string]bool{
		"LDM-503-2: no jira issue": true,
		"LDM-503-3: no due date":   true,
	}
	if len(report.Warnings) != len(want) {
		t.Fatalf("warnings = %v, want %d", report.Warnings, len(want))
	}
	for _, w := range report.Warnings {
		if !want[w] {
			t.Errorf("unexpected warning %q", w)
		}
	}
}

func TestTrackerSyncService_DryRun(t *testing.T) {
	service, tracker, ledger := newTestTrackerSyncService()
	c := newSyncCollection(t)

	report, err := service.Sync(context.Background(), c, primary.SyncRequest{DryRun: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tracker.sets != 0 || len(tracker.comments) != 0 {
		t.Errorf("dry run wrote to tracker: %d sets, %d comments", tracker.sets, len(tracker.comments))
	}
	for _, a := range report.Actions {
		if a.Applied {
			t.Errorf("%s applied during dry run", a.IssueKey)
		}
	}
	for _, e := range ledger.entries {
		if !e.DryRun {
			t.Errorf("%s recorded without the dry-run flag", e.IssueKey)
		}
	}

	dm2, _ := c.FindByCode("DM-2")
	if models.FormatDate(dm2.Due) != "2024-05-01" {
		t.Error("sync must not mutate the collection")
	}
}

func TestTrackerSyncService_Errors(t *testing.T) {
	t.Run("no tracker", func(t *testing.T) {
		service := NewTrackerSyncService(nil, nil, quietLogger)
		if _, err := service.Sync(context.Background(), newSyncCollection(t), primary.SyncRequest{}); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("tracker read fails", func(t *testing.T) {
		service, tracker, _ := newTestTrackerSyncService()
		tracker.getErr = errors.New("connection refused")
		if _, err := service.Sync(context.Background(), newSyncCollection(t), primary.SyncRequest{}); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("tracker write fails", func(t *testing.T) {
		service, tracker, ledger := newTestTrackerSyncService()
		tracker.setErr = errors.New("forbidden")
		if _, err := service.Sync(context.Background(), newSyncCollection(t), primary.SyncRequest{}); err == nil {
			t.Error("expected error, got nil")
		}
		if len(ledger.entries) != 0 {
			t.Errorf("failed write recorded %d entries", len(ledger.entries))
		}
	})
}

func TestTrackerSyncService_History(t *testing.T) {
	service, _, ledger := newTestTrackerSyncService()
	ledger.entries = []*secondary.SyncRecord{
		{ID: 1, MilestoneCode: "DM-1", IssueKey: "DM-100", Kind: secondary.SyncKindMilestone, Due: "2024-03-01"},
		{ID: 2, MilestoneCode: "DM-2", IssueKey: "DM-200", Kind: secondary.SyncKindMilestone, Due: "2024-05-01", DryRun: true},
	}

	entries, err := service.History(context.Background(), primary.SyncHistoryFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 2 || entries[0].IssueKey != "DM-200" || !entries[0].DryRun {
		t.Errorf("unexpected history %+v", entries)
	}

	entries, err = service.History(context.Background(), primary.SyncHistoryFilters{MilestoneCode: "DM-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 1 || entries[0].Due != "2024-03-01" {
		t.Errorf("unexpected filtered history %+v", entries)
	}
}

func TestSyncComment(t *testing.T) {
	got := SyncComment("LVV-1", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	if want := "Setting due date on LVV-1 to 2024-06-30 from P6"; got != want {
		t.Errorf("SyncComment = %q, want %q", got, want)
	}
}
