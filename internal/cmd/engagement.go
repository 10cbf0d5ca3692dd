package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/iocontext"
)

// defaultHistoryWindow is how far back searches reach without --from.
const defaultHistoryWindow = 24 * time.Hour

func newEngagementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "engagement",
		Aliases: []string{"eng"},
		Short:   "Engagement (chat) history",
	}
	cmd.AddCommand(newEngagementHistoryCmd())
	return cmd
}

// timeWindow parses --from/--to, defaulting to the last 24 hours.
func timeWindow(from, to string) (time.Time, time.Time, error) {
	now := time.Now()
	start, err := parseTimeFlag(from, "from", now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTimeFlag(to, "to", now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.Add(-defaultHistoryWindow)
	}
	return start, end, nil
}

func newEngagementHistoryCmd() *cobra.Command {
	var (
		from   string
		to     string
		skills string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Search engagement records by start time",
		Example: strings.TrimSpace(`
  lp engagement history --from 2h
  lp engagement history --from 2024-05-01 --to 2024-05-02 --skills 17,18 --limit 100
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
			res, err := client.Engagement().InteractionHistory(cmd.Context(), api.InteractionQuery{
				From:     start,
				To:       end,
				SkillIDs: skillIDs,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				return err
			}
			render := recordsRenderer(cmd, "interactionHistoryRecords", []column{
				{"ENGAGEMENT_ID", "info.engagementId"},
				{"START", "info.startTime"},
				{"DURATION", "info.duration"},
				{"AGENT", "info.agentNickName"},
				{"SKILL", "info.skillName"},
			}, "No engagements found.")
			return printResult(cmd, res, func(res api.Result) error {
				if err := render(res); err != nil {
					return err
				}
				if count := lookupPath(res.Map(), "_metadata.count"); count != "-" {
					_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).ErrOut, "%s total (offset %d)\n", count, offset)
				}
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "Start of window: RFC 3339, YYYY-MM-DD, unix ms, a duration ago, or e.g. yesterday, \"3d ago\" (default 24h)")
	cmd.Flags().StringVar(&to, "to", "", "End of window (default now)")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma separated skill ids")
	cmd.Flags().IntVar(&limit, "limit", api.DefaultInteractionLimit, "Records per page (0-100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")

	return cmd
}
