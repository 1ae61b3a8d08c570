package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/milestones/internal/wire"
)

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [code]",
		Short: "Show one milestone after reconciliation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.MilestoneAdapterWithOutput(cmd.OutOrStdout())
			return adapter.Show(cmd.Context(), loadRequest(nil), args[0], time.Now())
		},
	}
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones, optionally by code prefix and WBS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixes, _ := cmd.Flags().GetStringArray("prefix")
			wbs, _ := cmd.Flags().GetString("wbs")

			adapter := wire.MilestoneAdapterWithOutput(cmd.OutOrStdout())
			return adapter.List(cmd.Context(), loadRequest(nil), splitPrefixes(prefixes), wbs, time.Now())
		},
	}
	cmd.Flags().StringArrayP("prefix", "p", nil, "Code prefix to include (repeatable, or space separated)")
	cmd.Flags().StringP("wbs", "w", "", "Include only milestones under this WBS")
	return cmd
}
