package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Messaging conversation history",
	}
	cmd.AddCommand(newHistorySearchCmd())
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	var (
		from   string
		to     string
		skills string
		ended  bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search conversations by start time",
		Example: strings.TrimSpace(`
  lp history search --from 6h
  lp history search --from 2024-05-01 --ended --skills 17 -o jsonl -q '.records[]'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			start, end, err := timeWindow(from, to)
			if err != nil {
				return err
			}
			skillIDs, err := parseIDsFlag(skills, "skills")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.History().SearchConversations(cmd.Context(), api.HistoryQuery{
				From:     start,
				To:       end,
				SkillIDs: skillIDs,
				Ended:    ended,
			})
			if err != nil {
				return err
			}
			return printResult(cmd, res, recordsRenderer(cmd, "records", []column{
				{"CONVERSATION_ID", "info.conversationId"},
				{"START", "info.startTime"},
				{"STATUS", "info.status"},
				{"AGENT", "info.latestAgentLoginName"},
				{"SKILL", "info.latestSkillName"},
			}, "No conversations found."))
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "Start of window: RFC 3339, YYYY-MM-DD, unix ms, a duration ago, or e.g. yesterday, \"3d ago\" (default 24h)")
	cmd.Flags().StringVar(&to, "to", "", "End of window (default now)")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma separated skill ids")
	cmd.Flags().BoolVar(&ended, "ended", false, "Only closed conversations")

	return cmd
}
