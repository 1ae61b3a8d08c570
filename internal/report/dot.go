package report

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

const labelWidth = 25

// Dependencies writes Graphviz DOT source for the milestones under wbs and
// their direct neighbours. Completed milestones are filled blue, overdue
// ones orange; neighbours outside the WBS are drawn as rectangles.
func Dependencies(w io.Writer, c collection.Reader, wbs string, now time.Time) error {
	var b strings.Builder
	b.WriteString("strict digraph {\n")

	seen := make(map[string]bool)
	node := func(ms *models.Milestone) {
		if seen[ms.Code] {
			return
		}
		seen[ms.Code] = true
		b.WriteString(formatNode(ms, wbs, now))
	}

	all := c.All()
	for _, ms := range c.FilterByWBSPrefix(wbs) {
		node(ms)
		for _, other := range all {
			isPred := ms.Predecessors.Has(other.Code)
			isSucc := ms.Successors.Has(other.Code)
			if !isPred && !isSucc {
				continue
			}
			node(other)
			if isPred {
				fmt.Fprintf(&b, "  %q -> %q;\n", other.Code, ms.Code)
			}
			if isSucc {
				fmt.Fprintf(&b, "  %q -> %q;\n", ms.Code, other.Code)
			}
		}
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func formatNode(ms *models.Milestone, wbs string, now time.Time) string {
	label := fmt.Sprintf("%s: %s", html.EscapeString(ms.Code), html.EscapeString(ms.Name))
	attrs := []string{"label=<" + strings.Join(wrap(label, labelWidth), "<br/>") + ">"}

	switch {
	case ms.IsCompleted():
		attrs = append(attrs, "style=filled", "fillcolor=powderblue")
	case ms.Due != nil && ms.Due.Before(now):
		attrs = append(attrs, "style=filled", "fillcolor=orange")
	}
	if !ms.HasWBSPrefix(wbs) {
		attrs = append(attrs, "shape=rect")
	}
	return fmt.Sprintf("  %q [%s];\n", ms.Code, strings.Join(attrs, ","))
}

// wrap breaks text on spaces into lines of at most width runes; longer
// words stand alone.
func wrap(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
