package reconcile

import (
	"errors"
	"testing"
	"time"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		field  Field
		want   Tier
		wantOK bool
	}{
		{FieldName, TierCore, true},
		{FieldWBS, TierCore, true},
		{FieldDue, TierScheduling, true},
		{FieldCompleted, TierScheduling, true},
		{FieldAKA, TierNarrative, true},
		{FieldJiraTestPlan, TierNarrative, true},
		{Field("predecessors"), 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, ok := TierOf(tt.field)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TierOf(%s) = %v, %v; want %v, %v", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseEntry_DateValues(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantClear bool
		wantDate  string
	}{
		{name: "empty string clears", value: "", wantClear: true},
		{name: "null clears", value: nil, wantClear: true},
		{name: "iso string", value: "2024-01-10", wantDate: "2024-01-10"},
		{name: "padded iso string", value: " 2024-01-10 ", wantDate: "2024-01-10"},
		{name: "native date", value: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), wantDate: "2024-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides, err := ParseEntry("DM-1", Entry{"due": tt.value})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(overrides) != 1 {
				t.Fatalf("expected 1 override, got %d", len(overrides))
			}
			o := overrides[0]
			if o.Clear != tt.wantClear {
				t.Errorf("Clear = %v, want %v", o.Clear, tt.wantClear)
			}
			if tt.wantClear {
				if o.Date != nil {
					t.Errorf("Date = %v, want nil", o.Date)
				}
				return
			}
			if o.Date == nil || o.Date.Format("2006-01-02") != tt.wantDate {
				t.Errorf("Date = %v, want %s", o.Date, tt.wantDate)
			}
		})
	}
}

func TestParseEntry_BlankDateIsMalformed(t *testing.T) {
	for _, value := range []string{"   ", "\t"} {
		_, err := ParseEntry("DM-1", Entry{"completed": value})
		var malformed *MalformedAnnotationError
		if !errors.As(err, &malformed) {
			t.Fatalf("value %q: expected MalformedAnnotationError, got %v", value, err)
		}
		if malformed.Field != FieldCompleted {
			t.Errorf("Field = %q, want %q", malformed.Field, FieldCompleted)
		}
	}
}

func TestParseEntry_Order(t *testing.T) {
	overrides, err := ParseEntry("DM-1", Entry{
		"jira":        "DM-1",
		"due":         "2024-01-01",
		"name":        "x",
		"description": "y",
		"unknown":     "z",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []Field{FieldName, FieldDue, FieldDescription, FieldJira}
	if len(overrides) != len(want) {
		t.Fatalf("expected %d overrides, got %d", len(want), len(overrides))
	}
	for i, f := range want {
		if overrides[i].Field != f {
			t.Errorf("overrides[%d] = %s, want %s", i, overrides[i].Field, f)
		}
	}
}

func TestParseEntry_AKAString(t *testing.T) {
	overrides, err := ParseEntry("DM-1", Entry{"aka": "DM-OLD-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(overrides[0].List) != 1 || overrides[0].List[0] != "DM-OLD-1" {
		t.Errorf("List = %v, want [DM-OLD-1]", overrides[0].List)
	}
}
