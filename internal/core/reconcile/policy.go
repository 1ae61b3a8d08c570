package reconcile

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/milestones/internal/models"
)

// Field names an overridable milestone attribute in the annotation file.
type Field string

const (
	FieldName         Field = "name"
	FieldWBS          Field = "wbs"
	FieldDue          Field = "due"
	FieldCompleted    Field = "completed"
	FieldAKA          Field = "aka"
	FieldDescription  Field = "description"
	FieldComment      Field = "comment"
	FieldShortName    Field = "short_name"
	FieldTestSpec     Field = "test_spec"
	FieldJira         Field = "jira"
	FieldJiraTestPlan Field = "jira_testplan"
)

// Tier groups fields by how much an override contradicts the extract.
type Tier int

const (
	// TierCore fields should only come from the extract.
	TierCore Tier = iota + 1
	// TierScheduling fields are dates owned by the extract.
	TierScheduling
	// TierNarrative fields have no home in the extract.
	TierNarrative
)

func (t Tier) String() string {
	switch t {
	case TierCore:
		return "core"
	case TierScheduling:
		return "scheduling"
	case TierNarrative:
		return "narrative"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Level is the log level an override in this tier is reported at.
func (t Tier) Level() slog.Level {
	if t == TierNarrative {
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// fieldOrder fixes the order overrides are applied and reported in.
var fieldOrder = []Field{
	FieldName, FieldWBS,
	FieldDue, FieldCompleted,
	FieldAKA, FieldDescription, FieldComment, FieldShortName,
	FieldTestSpec, FieldJira, FieldJiraTestPlan,
}

var fieldTiers = map[Field]Tier{
	FieldName:         TierCore,
	FieldWBS:          TierCore,
	FieldDue:          TierScheduling,
	FieldCompleted:    TierScheduling,
	FieldAKA:          TierNarrative,
	FieldDescription:  TierNarrative,
	FieldComment:      TierNarrative,
	FieldShortName:    TierNarrative,
	FieldTestSpec:     TierNarrative,
	FieldJira:         TierNarrative,
	FieldJiraTestPlan: TierNarrative,
}

// TierOf returns the tier of a field; ok is false for unknown keys.
func TierOf(f Field) (Tier, bool) {
	t, ok := fieldTiers[f]
	return t, ok
}

// Entry is one milestone's raw annotation as decoded from the file.
type Entry map[string]any

// Annotations maps milestone codes to their entries.
type Annotations map[string]Entry

// Override is a validated, typed annotation value.
type Override struct {
	Field Field
	Tier  Tier
	Text  string
	List  []string
	Date  *time.Time
	Clear bool // explicit "" (or null) date: Date is nil
}

// ParseEntry validates an entry into overrides in application order.
// Unknown keys are dropped.
func ParseEntry(code string, entry Entry) ([]Override, error) {
	var overrides []Override
	for _, field := range fieldOrder {
		raw, present := entry[string(field)]
		if !present {
			continue
		}
		o, err := parseValue(code, field, raw)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

func parseValue(code string, field Field, raw any) (Override, error) {
	tier := fieldTiers[field]
	o := Override{Field: field, Tier: tier}
	malformed := func(reason string) error {
		return &MalformedAnnotationError{Code: code, Field: field, Value: raw, Reason: reason}
	}

	switch {
	case tier == TierScheduling:
		switch v := raw.(type) {
		case nil:
			o.Clear = true
		case time.Time:
			d := v.UTC()
			o.Date = &d
		case string:
			if v == "" {
				o.Clear = true
				break
			}
			d, err := time.Parse(models.DateLayout, strings.TrimSpace(v))
			if err != nil {
				return o, malformed("expected an ISO date (YYYY-MM-DD) or an empty string")
			}
			o.Date = &d
		default:
			return o, malformed("expected an ISO date (YYYY-MM-DD) or an empty string")
		}
	case field == FieldAKA:
		switch v := raw.(type) {
		case nil:
			o.List = nil
		case string:
			if v != "" {
				o.List = []string{v}
			}
		case []string:
			o.List = append([]string(nil), v...)
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return o, malformed("expected a list of strings")
				}
				o.List = append(o.List, s)
			}
		default:
			return o, malformed("expected a string or a list of strings")
		}
	default:
		switch v := raw.(type) {
		case nil:
			o.Text = ""
		case string:
			o.Text = v
		default:
			return o, malformed("expected a string")
		}
	}
	return o, nil
}

// apply writes the override to the milestone and returns the old and new
// values as display strings.
func (o Override) apply(ms *models.Milestone) (old, updated string) {
	switch o.Field {
	case FieldName:
		old, ms.Name = ms.Name, o.Text
	case FieldWBS:
		old, ms.WBS = ms.WBS, o.Text
	case FieldDue:
		old = models.FormatDate(ms.Due)
		ms.Due = o.Date
	case FieldCompleted:
		old = models.FormatDate(ms.Completed)
		ms.Completed = o.Date
	case FieldAKA:
		old = strings.Join(ms.AKA, ", ")
		ms.AKA = o.List
	case FieldDescription:
		old, ms.Description = ms.Description, o.Text
	case FieldComment:
		old, ms.Comment = ms.Comment, o.Text
	case FieldShortName:
		old, ms.ShortName = ms.ShortName, o.Text
	case FieldTestSpec:
		old, ms.TestSpec = ms.TestSpec, o.Text
	case FieldJira:
		old, ms.Jira = ms.Jira, o.Text
	case FieldJiraTestPlan:
		old, ms.JiraTestPlan = ms.JiraTestPlan, o.Text
	}
	return old, o.display()
}

func (o Override) display() string {
	switch {
	case o.Tier == TierScheduling:
		return models.FormatDate(o.Date)
	case o.Field == FieldAKA:
		return strings.Join(o.List, ", ")
	}
	return o.Text
}
