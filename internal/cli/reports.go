package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/milestones/internal/core/graph"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/report"
	"github.com/example/milestones/internal/wire"
)

// load builds the collection, sending forecast warnings to stderr so that
// report output stays clean.
func load(cmd *cobra.Command, forecast *primary.ForecastRequest) (*primary.LoadResult, error) {
	return wire.MilestoneAdapterWithOutput(cmd.ErrOrStderr()).Load(cmd.Context(), loadRequest(forecast))
}

func snapshotOrNow(result *primary.LoadResult) models.Period {
	if result.Snapshot.IsZero() {
		return models.PeriodOf(time.Now())
	}
	return result.Snapshot
}

// DelayedCmd returns the delayed command
func DelayedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delayed",
		Short: "Print incomplete milestones that are past due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wbs, _ := cmd.Flags().GetString("wbs")
			asOfFlag, _ := cmd.Flags().GetString("as-of")
			asOf, err := parseDate(asOfFlag, time.Now())
			if err != nil {
				return err
			}

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			n, err := report.Delayed(cmd.OutOrStdout(), result.Collection, wbsOrDefault(wbs), asOf, report.ObsoleteCodes)
			if err != nil {
				return err
			}
			logger.Info("delayed milestones", "count", n, "as_of", asOf.Format(models.DateLayout))
			return nil
		},
	}
	cmd.Flags().StringP("wbs", "w", "", "Include only milestones under this WBS (default from config)")
	cmd.Flags().String("as-of", "", "Report milestones due before this date, YYYY-MM-DD (default today)")
	return cmd
}

// PredecessorsCmd returns the predecessors command
func PredecessorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predecessors",
		Short: "List each test campaign milestone with its predecessors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			return report.Predecessors(cmd.OutOrStdout(), result.Collection)
		},
	}
}

// CSVCmd returns the csv command
func CSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Generate a month-column CSV of the milestone schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			wbs, _ := cmd.Flags().GetString("wbs")

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			return emit(cmd, output, report.CommentCSV, func(w io.Writer) error {
				return report.MonthGrid(w, result.Collection, wbsOrDefault(wbs))
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Filename for output (default stdout)")
	cmd.Flags().StringP("wbs", "w", "", "Include only milestones under this WBS (default from config)")
	return cmd
}

// GraphCmd returns the graph command
func GraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate Graphviz dot showing milestone relationships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			wbs, _ := cmd.Flags().GetString("wbs")

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			return emit(cmd, output, report.CommentDOT, func(w io.Writer) error {
				return report.Dependencies(w, result.Collection, wbsOrDefault(wbs), time.Now())
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Filename for output (default stdout)")
	cmd.Flags().StringP("wbs", "w", "", "Include only milestones under this WBS (default from config)")
	return cmd
}

// BlockScheduleCmd returns the blockschedule command
func BlockScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blockschedule",
		Short: "List milestones tagged for the summary chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			return report.BlockSchedule(cmd.OutOrStdout(), result.Collection)
		},
	}
}

// CelebCmd returns the celeb command
func CelebCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "celeb",
		Short: "List celebratory milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			supporting, _ := cmd.Flags().GetBool("include-supporting")
			output, _ := cmd.Flags().GetString("output")

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			return emit(cmd, output, report.CommentReST, func(w io.Writer) error {
				return report.Celebrations(w, result.Collection, snapshotOrNow(result), supporting)
			})
		},
	}
	cmd.Flags().Bool("include-supporting", false, "Include supporting celebrations as well as the top tier")
	cmd.Flags().StringP("output", "o", "", "Filename for output (default stdout)")
	return cmd
}

// GanttCmd returns the gantt command
func GanttCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "List summary-schedule milestones with their month offsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startFlag, _ := cmd.Flags().GetString("start-date")
			output, _ := cmd.Flags().GetString("output")

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			start := snapshotOrNow(result)
			if startFlag != "" {
				t, err := parseDate(startFlag, time.Time{})
				if err != nil {
					return err
				}
				start = models.PeriodOf(t)
			}

			prefixes := cfg.GanttPrefixes
			if len(prefixes) == 0 {
				prefixes = report.GanttPrefixes
			}
			return emit(cmd, output, report.CommentCSV, func(w io.Writer) error {
				return report.Gantt(w, result.Collection, prefixes, start)
			})
		},
	}
	cmd.Flags().String("start-date", "", "Month counted as month 1, YYYY-MM-DD (default extract period)")
	cmd.Flags().StringP("output", "o", "", "Filename for output (default stdout)")
	return cmd
}

// CyclesCmd returns the cycles command
func CyclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "Report dependency cycles among milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			g := graph.Build(result.Collection.All())
			cycles := g.Cycles()
			logger.Info("dependency graph", "nodes", len(g.Nodes), "edges", g.EdgeCount(), "cycles", len(cycles))
			if err := report.Cycles(cmd.OutOrStdout(), cycles); err != nil {
				return fmt.Errorf("failed to write cycles: %w", err)
			}
			return nil
		},
	}
}
