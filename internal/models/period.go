package models

import (
	"fmt"
	"time"
)

// Period identifies a monthly schedule snapshot (YYYYMM).
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a YYYYMM string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("200601", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYYMM", s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// AddMonths returns the period n months later (n may be negative).
func (p Period) AddMonths(n int) Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return PeriodOf(t)
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// FirstDay returns midnight UTC on the first of the month.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String renders YYYYMM.
func (p Period) String() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// Label renders e.g. "March 2024".
func (p Period) Label() string {
	return p.FirstDay().Format("January 2006")
}
