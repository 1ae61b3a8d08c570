package report

import (
	"fmt"
	"io"
	"time"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

// Delayed writes every open milestone under wbs that was due before asOf,
// skipping retired codes. One line per milestone: WBS, code, name, due.
func Delayed(w io.Writer, c collection.Reader, wbs string, asOf time.Time, obsolete []string) (int, error) {
	skip := codeSet(obsolete)
	n := 0
	for _, ms := range c.FilterByWBSPrefix(wbs) {
		if skip[ms.Code] || !ms.IsDelayed(asOf) {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %s %s %s\n", ms.WBS, ms.Code, ms.Name, models.FormatDate(ms.Due)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Predecessors writes each LDM-503 test milestone with the DM milestones
// that feed it, both ordered by due date then code.
func Predecessors(w io.Writer, c collection.Reader) error {
	tests := c.FilterByCodePrefix("LDM-503")
	collection.SortByDue(tests)
	dm := c.FilterByCodePrefix("DM-")
	collection.SortByDue(dm)

	for _, ms := range tests {
		for _, pre := range dm {
			if !ms.Predecessors.Has(pre.Code) {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s : %s\n", ms.Code, pre.Code); err != nil {
				return err
			}
		}
	}
	return nil
}

// BlockSchedule writes the milestones carrying a summary-chart or
// celebration tag. The celebrate column is only filled for milestones
// without a summary-chart entry.
func BlockSchedule(w io.Writer, c collection.Reader) error {
	if _, err := fmt.Fprintln(w, "Summary Chart, Code, Start, Finish, Celebrate"); err != nil {
		return err
	}
	for _, ms := range c.All() {
		celebrate := ""
		switch {
		case ms.SummaryChart != "":
		case ms.Celebrate != "":
			celebrate = ms.Celebrate
		default:
			continue
		}
		_, err := fmt.Fprintf(w, "%s, %s, %s, %s, %s\n",
			ms.SummaryChart, ms.Code, models.FormatDate(ms.Start), models.FormatDate(ms.Due), celebrate)
		if err != nil {
			return err
		}
	}
	return nil
}

// Gantt writes the summary-schedule milestones (codes under any of prefixes)
// in due order with their month offset from start, month 1 being the month
// of start.
func Gantt(w io.Writer, c collection.Reader, prefixes []string, start models.Period) error {
	milestones := c.FilterByCodePrefix(prefixes...)
	collection.SortByDue(milestones)

	if _, err := fmt.Fprintln(w, "Code, Due, Month, Name"); err != nil {
		return err
	}
	for _, ms := range milestones {
		month := ""
		if ms.Due != nil {
			p := models.PeriodOf(*ms.Due)
			month = fmt.Sprint(1 + (p.Year*12 + int(p.Month)) - (start.Year*12 + int(start.Month)))
		}
		if _, err := fmt.Fprintf(w, "%s, %s, %s, %s\n", ms.Code, models.FormatDate(ms.Due), month, ms.DisplayName()); err != nil {
			return err
		}
	}
	return nil
}
