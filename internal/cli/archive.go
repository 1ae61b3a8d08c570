package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/milestones/internal/wire"
)

// ArchiveCmd returns the archive command
func ArchiveCmd() *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage the snapshot archive",
		Long:  "Store monthly extracts in the sqlite archive so that forecasts can be compared without the original files",
	}

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Archive an extract under its period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, _ := cmd.Flags().GetString("period")
			return wire.ArchiveAdapterWithOutput(cmd.OutOrStdout()).Import(cmd.Context(), args[0], period)
		},
	}
	importCmd.Flags().String("period", "", "Period as YYYYMM (default from the YYYYMM-ME file name)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ArchiveAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context())
		},
	}

	archiveCmd.AddCommand(importCmd)
	archiveCmd.AddCommand(listCmd)
	return archiveCmd
}
