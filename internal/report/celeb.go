package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

const headingChars = "#=-^\""

func heading(w io.Writer, title string, level int) {
	line := strings.Repeat(string(headingChars[level]), len([]rune(title)))
	fmt.Fprintf(w, "%s\n%s\n\n", title, line)
}

// Celebrations writes the celebratory milestones as a reStructuredText
// list: the "Top" tier always, the supporting ("Y") tier on request. Each
// tier is ordered by WBS then code.
func Celebrations(w io.Writer, c collection.Reader, snapshot models.Period, includeSupporting bool) error {
	var top, supporting []*models.Milestone
	for _, ms := range c.All() {
		switch ms.Celebrate {
		case models.CelebrateTop:
			top = append(top, ms)
		case models.CelebrateYes:
			supporting = append(supporting, ms)
		}
	}

	var b strings.Builder
	b.WriteString(":tocdepth: 0\n\n")

	heading(&b, "Provenance", 1)
	if !snapshot.IsZero() {
		fmt.Fprintf(&b, "This corresponds to the status recorded in the project controls system for %s.\n\n", snapshot.Label())
	}

	writeTier := func(title string, milestones []*models.Milestone) {
		collection.SortByWBSCode(milestones)
		heading(&b, title, 1)
		for _, ms := range milestones {
			fmt.Fprintf(&b, "- `%s`_: %s [Due %s]\n\n", ms.Code, ms.Name, models.FormatDate(ms.Due))
		}
	}
	writeTier("Top milestones", top)
	if includeSupporting {
		writeTier("Supporting milestones", supporting)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
