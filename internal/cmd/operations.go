package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
)

func newOperationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "Real-time operational metrics",
	}
	cmd.AddCommand(newMetricsCmd("queue-health", "Queue health for the recent timeframe", false,
		func(ctx context.Context, c *api.Client, q api.MetricsQuery) (api.Result, error) {
			return c.Operational().QueueHealth(ctx, q)
		}))
	cmd.AddCommand(newMetricsCmd("engagement-activity", "Engagement activity per agent and skill", true,
		func(ctx context.Context, c *api.Client, q api.MetricsQuery) (api.Result, error) {
			return c.Operational().EngagementActivity(ctx, q)
		}))
	cmd.AddCommand(newMetricsCmd("agent-activity", "Agent activity for the recent timeframe", true,
		func(ctx context.Context, c *api.Client, q api.MetricsQuery) (api.Result, error) {
			return c.Operational().AgentActivity(ctx, q)
		}))
	cmd.AddCommand(newQueueStateCmd())
	return cmd
}

type metricsCall func(ctx context.Context, c *api.Client, q api.MetricsQuery) (api.Result, error)

// newMetricsCmd builds a command over one of the timeframe/interval
// metrics endpoints.
func newMetricsCmd(use, short string, withAgents bool, call metricsCall) *cobra.Command {
	var mf metricsFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			q, err := mf.query(cmd)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := call(cmd.Context(), client, q)
			if err != nil {
				return err
			}
			return printResult(cmd, res, nil)
		}),
	}

	mf.register(cmd, withAgents)

	return cmd
}

func newQueueStateCmd() *cobra.Command {
	var skills string

	cmd := &cobra.Command{
		Use:   "queue-state",
		Short: "Current queue state per skill",
		Example: strings.TrimSpace(`
  lp operations queue-state
  lp operations queue-state --skills 17,18
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			skillIDs, err := parseIDsFlag(skills, "skills")
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Operational().CurrentQueueState(cmd.Context(), skillIDs)
			if err != nil {
				return err
			}
			return printResult(cmd, res, nil)
		}),
	}

	cmd.Flags().StringVar(&skills, "skills", "", "Comma separated skill ids (default: all)")

	return cmd
}
