package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

// ForecastTrend writes a CSV comparing each milestone's current forecast
// with the forecasts derived from one and monthsBack months earlier.
// Only milestones under prefixes that are due after start and not completed
// on or before start are included.
func ForecastTrend(w io.Writer, c collection.Reader, prefixes []string, start time.Time, monthsBack int) error {
	cw := csv.NewWriter(w)
	header := []string{"Code", "Forecast end", "Last Month", "delta1", fmt.Sprintf("%d Month", monthsBack), "delta2"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, ms := range c.FilterByCodePrefix(prefixes...) {
		if !inWindow(ms, start) {
			continue
		}
		d1, ok1 := ms.ForecastSlip(ms.PriorForecastDue)
		d2, ok2 := ms.ForecastSlip(ms.TwoPriorForecastDue)
		record := []string{
			ms.Code,
			models.FormatDate(ms.ForecastDue),
			models.FormatDate(ms.PriorForecastDue),
			optionalInt(d1, ok1),
			models.FormatDate(ms.TwoPriorForecastDue),
			optionalInt(d2, ok2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// inWindow reports whether a milestone is due after start and still open
// at start.
func inWindow(ms *models.Milestone, start time.Time) bool {
	if ms.Due == nil || !ms.Due.After(start) {
		return false
	}
	return ms.Completed == nil || ms.Completed.After(start)
}

func optionalInt(n int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// BurndownPoint is the open-milestone count at the start of one month.
type BurndownPoint struct {
	Month    models.Period
	Model    int // open according to the baseline due dates
	Achieved int // open according to completion dates
	HasData  bool
}

// Burndown counts open DM, DLP and LDM-503 milestones at each month start
// between start and end. DM and DLP milestones due or completed before
// start are left out. Achieved counts are marked as data only up to the
// last month in which a milestone was completed.
func Burndown(c collection.Reader, start, end time.Time) []BurndownPoint {
	included := make(map[string]*models.Milestone)
	for _, ms := range c.FilterByCodePrefix("DM-", "DLP-") {
		if inWindow(ms, start) {
			included[ms.Code] = ms
		}
	}
	for _, ms := range c.FilterByCodePrefix("LDM-503") {
		included[ms.Code] = ms
	}

	var points []BurndownPoint
	lastAchieved := -1
	for p := models.PeriodOf(start); !p.FirstDay().After(end); p = p.AddMonths(1) {
		day := p.FirstDay()
		if day.Before(start) {
			continue
		}
		pt := BurndownPoint{Month: p, Model: len(included), Achieved: len(included)}
		for _, ms := range included {
			if ms.Due != nil && !ms.Due.After(day) {
				pt.Model--
			}
			if ms.Completed != nil && !ms.Completed.After(day) {
				pt.Achieved--
			}
		}
		if n := len(points); n > 0 && pt.Achieved < points[n-1].Achieved {
			lastAchieved = n
		}
		points = append(points, pt)
	}
	for i := range points {
		points[i].HasData = i <= lastAchieved
	}
	return points
}

// WriteBurndown renders burndown points as CSV; achieved counts beyond the
// last month with data are left blank.
func WriteBurndown(w io.Writer, points []BurndownPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Month", "Baseline", "Achieved"}); err != nil {
		return err
	}
	for _, pt := range points {
		achieved := ""
		if pt.HasData {
			achieved = strconv.Itoa(pt.Achieved)
		}
		if err := cw.Write([]string{pt.Month.FirstDay().Format(models.DateLayout), strconv.Itoa(pt.Model), achieved}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
