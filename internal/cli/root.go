package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/milestones/internal/config"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/report"
	"github.com/example/milestones/internal/wire"
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	Extract      string
	LocalData    string
	IncludeTasks bool
	Verbose      int
}

// AddFlags registers the global flags on a persistent flag set.
func (o *GlobalOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.Extract, "pmcs-data", "", "path to the schedule extract (default: newest YYYYMM-ME.csv in the data directory)")
	flagSet.StringVar(&o.LocalData, "local-data", "", "path to local annotations (default from config: "+config.DefaultLocalData+")")
	flagSet.BoolVar(&o.IncludeTasks, "include-tasks", false, "keep general tasks as well as milestones")
	flagSet.CountVarP(&o.Verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

var (
	globals GlobalOptions
	cfg     = config.Default()
	logger  = slog.Default()
)

// RootCmd builds the milestones command tree.
func RootCmd(versionString string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "milestones",
		Short:   "Reconcile the schedule extract with local annotations and report on milestones",
		Version: versionString,
		Long: `milestones merges the monthly schedule extract with a locally maintained
annotation file and renders the result as listings, CSV grids, Graphviz
sources and tracker updates.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
	globals.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(ShowCmd())
	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(DelayedCmd())
	rootCmd.AddCommand(PredecessorsCmd())
	rootCmd.AddCommand(CSVCmd())
	rootCmd.AddCommand(GraphCmd())
	rootCmd.AddCommand(ForecastCmd())
	rootCmd.AddCommand(BurndownCmd())
	rootCmd.AddCommand(BlockScheduleCmd())
	rootCmd.AddCommand(CelebCmd())
	rootCmd.AddCommand(GanttCmd())
	rootCmd.AddCommand(CyclesCmd())
	rootCmd.AddCommand(JiraCmd())
	rootCmd.AddCommand(ArchiveCmd())

	return rootCmd
}

// setup loads configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	logger = NewLogger(cmd.ErrOrStderr(), globals.Verbose)
	slog.SetDefault(logger)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	loaded, err := config.Load(cwd)
	if err != nil {
		return err
	}
	cfg = loaded
	wire.Configure(cfg, logger)
	return nil
}

// NewLogger returns a text logger whose level follows the -v count.
func NewLogger(w io.Writer, verbosity int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LevelFor(verbosity)}))
}

// LevelFor maps a -v count to a level: WARN, INFO, then DEBUG.
func LevelFor(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// loadRequest builds the schedule request from the global flags.
func loadRequest(forecast *primary.ForecastRequest) primary.LoadRequest {
	annotations := globals.LocalData
	if annotations == "" {
		annotations = cfg.LocalData
	}
	return primary.LoadRequest{
		ExtractPath:    globals.Extract,
		AnnotationPath: annotations,
		IncludeTasks:   globals.IncludeTasks,
		Forecast:       forecast,
	}
}

// parseDate parses a YYYY-MM-DD flag value; "" yields fallback.
func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// splitPrefixes accepts repeated and space-separated prefix values.
func splitPrefixes(values []string) []string {
	var prefixes []string
	for _, v := range values {
		prefixes = append(prefixes, strings.Fields(v)...)
	}
	return prefixes
}

func wbsOrDefault(wbs string) string {
	if wbs != "" {
		return wbs
	}
	if cfg.DefaultWBS != "" {
		return cfg.DefaultWBS
	}
	return report.DefaultWBS
}

// emit renders a report to stdout, or to output behind the generated-file
// header.
func emit(cmd *cobra.Command, output, commentPrefix string, render func(io.Writer) error) error {
	if output == "" {
		return render(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", cmd.Name(), err)
	}
	if err := report.WriteOutput(output, cmd.CommandPath(), commentPrefix, buf.Bytes(), time.Now()); err != nil {
		return err
	}
	logger.Info("wrote report", "command", cmd.Name(), "path", output)
	return nil
}
