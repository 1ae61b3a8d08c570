// Package reconcile merges the schedule extract with local annotations into
// a single milestone collection under a fixed override policy.
//
// Overrides are grouped into tiers. Core (name, wbs) and scheduling (due,
// completed) overrides patch data the extract owns and are logged at WARN;
// narrative overrides fill fields the extract has no room for and are logged
// at INFO. Unknown annotation keys are ignored.
package reconcile

import (
	"log/slog"
	"sort"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

// Options controls a reconciliation run.
type Options struct {
	// IncludeTasks keeps general tasks as well as milestone records.
	IncludeTasks bool
	// Logger receives override notices; nil means slog.Default().
	Logger *slog.Logger
}

// Reconcile builds the milestone collection from extract records and
// applies annotation overrides. Either every override is applied or an
// error is returned and no collection is produced.
func Reconcile(records []models.TaskRecord, annotations Annotations, opts Options) (*collection.Collection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	milestones, err := buildMilestones(records, opts.IncludeTasks)
	if err != nil {
		return nil, err
	}

	plan, err := planOverrides(milestones, annotations)
	if err != nil {
		return nil, err
	}

	var notices []collection.Notice
	for _, ms := range milestones {
		for _, o := range plan[ms.Code] {
			old, updated := o.apply(ms)
			n := collection.Notice{Level: o.Tier.Level(), Code: ms.Code, Field: string(o.Field), Old: old, New: updated}
			notices = append(notices, n)
			logNotice(logger, o.Tier, n)
		}
	}

	if unmatched := unmatchedCodes(milestones, annotations); len(unmatched) > 0 {
		logger.Debug("annotations without a matching milestone", "count", len(unmatched), "codes", unmatched)
	}

	return collection.New(milestones, notices)
}

func buildMilestones(records []models.TaskRecord, includeTasks bool) ([]*models.Milestone, error) {
	// Codes are unique across the whole extract, not just the kept subset.
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Code == "" {
			return nil, &RecordError{Reason: "record " + r.Name + " has an empty code"}
		}
		if seen[r.Code] {
			return nil, &collection.DuplicateCodeError{Code: r.Code}
		}
		seen[r.Code] = true
	}

	milestones := make([]*models.Milestone, 0, len(records))
	for _, r := range records {
		if !includeTasks && !r.IsMilestone() {
			continue
		}
		if r.IsCompleted() && r.CompletedDate() == nil {
			return nil, &RecordError{Code: r.Code, Reason: "completed with no date"}
		}
		milestones = append(milestones, models.NewMilestone(r))
	}
	return milestones, nil
}

// planOverrides validates every relevant entry before anything is mutated.
func planOverrides(milestones []*models.Milestone, annotations Annotations) (map[string][]Override, error) {
	plan := make(map[string][]Override)
	for _, ms := range milestones {
		entry, ok := annotations[ms.Code]
		if !ok {
			continue
		}
		overrides, err := ParseEntry(ms.Code, entry)
		if err != nil {
			return nil, err
		}
		plan[ms.Code] = overrides
	}
	return plan, nil
}

func logNotice(logger *slog.Logger, tier Tier, n collection.Notice) {
	if tier == TierNarrative {
		logger.Info("setting annotation field", "code", n.Code, "field", n.Field)
		return
	}
	logger.Warn("overriding extract field",
		"code", n.Code,
		"field", n.Field,
		"tier", tier.String(),
		"was", n.Old,
		"now", n.New,
	)
}

func unmatchedCodes(milestones []*models.Milestone, annotations Annotations) []string {
	known := make(map[string]bool, len(milestones))
	for _, ms := range milestones {
		known[ms.Code] = true
	}
	var out []string
	for code := range annotations {
		if !known[code] {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}
