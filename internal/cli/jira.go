package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/milestones/internal/wire"
)

// JiraCmd returns the jira command
func JiraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jira",
		Short: "Sync milestone due dates to Jira",
		Long: `Push each milestone's due date to its linked Jira issue, and the due date
less 45 days to its test plan issue. Credentials come from JIRA_USER and
JIRA_PW, or JIRA_TOKEN for a personal access token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, _ := cmd.Flags().GetBool("history")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			code, _ := cmd.Flags().GetString("code")
			limit, _ := cmd.Flags().GetInt("limit")

			adapter := wire.TrackerAdapterWithOutput(cmd.OutOrStdout())
			if history {
				return adapter.History(cmd.Context(), code, limit)
			}

			result, err := load(cmd, nil)
			if err != nil {
				return err
			}
			return adapter.Sync(cmd.Context(), result.Collection, dryRun)
		},
	}
	cmd.Flags().Bool("dry-run", false, "Show the changes without writing to Jira")
	cmd.Flags().Bool("history", false, "List earlier syncs instead of syncing")
	cmd.Flags().String("code", "", "Limit --history to one milestone")
	cmd.Flags().Int("limit", 50, "Maximum --history entries (0 for all)")
	return cmd
}
