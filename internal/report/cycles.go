package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/milestones/internal/core/graph"
)

// Cycles writes each dependency cycle as its witness path.
func Cycles(w io.Writer, cycles []graph.Cycle) error {
	if len(cycles) == 0 {
		_, err := fmt.Fprintln(w, "No dependency cycles.")
		return err
	}
	for _, c := range cycles {
		if _, err := fmt.Fprintf(w, "%s (%d milestones)\n", strings.Join(c.Path, " -> "), len(c.Members)); err != nil {
			return err
		}
	}
	return nil
}
