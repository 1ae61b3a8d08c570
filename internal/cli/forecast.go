package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/report"
)

const (
	defaultMonthsBack     = 3
	defaultBurndownStart  = "2016-10-30"
	defaultBurndownFinish = "2022-06-30"
)

// ForecastCmd returns the forecast command
func ForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Compare current forecasts with those of earlier snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixFlags, _ := cmd.Flags().GetStringArray("prefix")
			startFlag, _ := cmd.Flags().GetString("start-date")
			months, _ := cmd.Flags().GetInt("months")
			history, _ := cmd.Flags().GetString("history")
			output, _ := cmd.Flags().GetString("output")

			prefixes := splitPrefixes(prefixFlags)
			if len(prefixes) == 0 {
				return fmt.Errorf("at least one --prefix is required")
			}
			if history != primary.HistoryDirectory && history != primary.HistoryArchive {
				return fmt.Errorf("invalid --history %q: use %s or %s", history, primary.HistoryDirectory, primary.HistoryArchive)
			}
			start, err := parseDate(startFlag, time.Now())
			if err != nil {
				return err
			}

			result, err := load(cmd, &primary.ForecastRequest{History: history, MonthsBack: months})
			if err != nil {
				return err
			}
			return emit(cmd, output, report.CommentCSV, func(w io.Writer) error {
				return report.ForecastTrend(w, result.Collection, prefixes, start, months)
			})
		},
	}
	cmd.Flags().StringArrayP("prefix", "p", nil, "Code prefixes to include, e.g. \"DM- DLP-\" (repeatable)")
	cmd.Flags().String("start-date", "", "Skip milestones due or completed by this date, YYYY-MM-DD (default today)")
	cmd.Flags().IntP("months", "m", defaultMonthsBack, "Months back for the second comparison")
	cmd.Flags().String("history", primary.HistoryDirectory, "Where earlier snapshots come from: dir or archive")
	cmd.Flags().StringP("output", "o", "", "Filename for output (default stdout)")
	return cmd
}

// BurndownCmd returns the burndown command
func BurndownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burndown",
		Short: "Tabulate open milestones per month, planned against achieved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startFlag, _ := cmd.Flags().GetString("start-date")
			endFlag, _ := cmd.Flags().GetString("end-date")
			output, _ := cmd.Flags().GetString("output")

			start, err := parseDate(startFlag, time.Time{})
			if err != nil {
				return err
			}
			end, err := parseDate(endFlag, time.Time{})
			if err != nil {
				return err
			}
			if !end.After(start) {
				return fmt.Errorf("--end-date must be after --start-date")
			}

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			points := report.Burndown(result.Collection, start, end)
			return emit(cmd, output, report.CommentCSV, func(w io.Writer) error {
				return report.WriteBurndown(w, points)
			})
		},
	}
	cmd.Flags().String("start-date", defaultBurndownStart, "First month of the burndown, YYYY-MM-DD")
	cmd.Flags().String("end-date", defaultBurndownFinish, "Last month of the burndown, YYYY-MM-DD")
	cmd.Flags().StringP("output", "o", "", "Filename for output (default stdout)")
	return cmd
}
