package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent", "ag"},
		Short:   "Agent state from the messaging agent view",
	}
	cmd.AddCommand(newAgentsStatusCmd())
	cmd.AddCommand(newAgentsSummaryCmd())
	return cmd
}

// parseAgentStates parses a comma separated state list such as
// "online,back-soon".
func parseAgentStates(value string) ([]api.AgentState, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var states []api.AgentState
	for _, part := range strings.Split(value, ",") {
		st, ok := api.ParseAgentState(part)
		if !ok {
			return nil, &validation.ArgumentError{
				Field:  "state",
				Value:  strings.TrimSpace(part),
				Reason: "must be one of online, away, back-soon, offline",
			}
		}
		states = append(states, st)
	}
	return states, nil
}

func newAgentsStatusCmd() *cobra.Command {
	var (
		state  string
		groups string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List agents and their current state",
		Example: strings.TrimSpace(`
  lp agents status
  lp agents status --state online,away --groups 12,14
  lp agents status -o json -q '.agentStatusRecords[] | select(.currentStatus == "ONLINE")'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			states, err := parseAgentStates(state)
			if err != nil {
				return err
			}
			groupIDs, err := parseIDsFlag(groups, "groups")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Agents().Status(cmd.Context(), api.AgentStatusQuery{States: states, GroupIDs: groupIDs})
			if err != nil {
				return err
			}
			return printResult(cmd, res, recordsRenderer(cmd, "agentStatusRecords", []column{
				{"AGENT_ID", "agentId"},
				{"LOGIN", "agentLoginName"},
				{"NICKNAME", "agentNickname"},
				{"STATUS", "currentStatus"},
				{"GROUP", "agentGroupId"},
				{"SINCE", "statusChangeTime"},
			}, "No agents found."))
		}),
	}

	cmd.Flags().StringVar(&state, "state", "", "Comma separated states: online, away, back-soon, offline (default: all)")
	cmd.Flags().StringVar(&groups, "groups", "", "Comma separated agent group ids (default: all)")
	flagAlias(cmd.Flags(), "state", "status")

	return cmd
}

func newAgentsSummaryCmd() *cobra.Command {
	var groups string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Agent counts per state",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			groupIDs, err := parseIDsFlag(groups, "groups")
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Agents().Summary(cmd.Context(), groupIDs)
			if err != nil {
				return err
			}
			return printResult(cmd, res, nil)
		}),
	}

	cmd.Flags().StringVar(&groups, "groups", "", "Comma separated agent group ids (default: all)")

	return cmd
}
