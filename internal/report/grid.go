package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

// MonthGrid writes a CSV with one column per calendar month between the
// earliest and latest due dates of the collection. Each column lists the
// milestones under wbs due that month as "CODE (WBS)" or "CODE (WBS DONE)".
func MonthGrid(w io.Writer, c collection.Reader, wbs string) error {
	var first, last models.Period
	for _, ms := range c.All() {
		if ms.Due == nil {
			continue
		}
		p := models.PeriodOf(*ms.Due)
		if first.IsZero() || p.String() < first.String() {
			first = p
		}
		if last.IsZero() || p.String() > last.String() {
			last = p
		}
	}

	cw := csv.NewWriter(w)
	if first.IsZero() {
		cw.Flush()
		return cw.Error()
	}

	var (
		header  []string
		columns = make(map[models.Period][]string)
		rows    int
	)
	for p := first; p.String() <= last.String(); p = p.AddMonths(1) {
		header = append(header, p.FirstDay().Format("Jan 2006"))
	}
	for _, ms := range c.FilterByWBSPrefix(wbs) {
		if ms.Due == nil {
			continue
		}
		p := models.PeriodOf(*ms.Due)
		cell := fmt.Sprintf("%s (%s)", ms.Code, ms.WBS)
		if ms.IsCompleted() {
			cell = fmt.Sprintf("%s (%s DONE)", ms.Code, ms.WBS)
		}
		columns[p] = append(columns[p], cell)
		rows = max(rows, len(columns[p]))
	}

	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		record := make([]string, len(header))
		col := 0
		for p := first; p.String() <= last.String(); p = p.AddMonths(1) {
			if cells := columns[p]; i < len(cells) {
				record[col] = cells[i]
			}
			col++
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

