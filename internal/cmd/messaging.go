package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newMessagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messaging",
		Aliases: []string{"msg"},
		Short:   "Real-time messaging metrics",
	}
	cmd.AddCommand(newMessagingConversationCmd())
	return cmd
}

func newMessagingConversationCmd() *cobra.Command {
	var mf metricsFlags

	cmd := &cobra.Command{
		Use:   "conversation",
		Short: "Conversation metrics for the recent timeframe",
		Example: strings.TrimSpace(`
  lp messaging conversation
  lp messaging conversation --timeframe 120 --interval 30 --skills 17
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			q, err := mf.query(cmd)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Messaging().Conversation(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResult(cmd, res, nil)
		}),
	}

	mf.register(cmd, true)

	return cmd
}
