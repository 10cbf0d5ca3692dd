package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/dryrun"
	"github.com/cwsops/liveperson-cli/internal/iocontext"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

func newVisitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "visitors",
		Aliases: []string{"visitor", "vis"},
		Short:   "Visitor monitoring events",
	}
	cmd.AddCommand(newVisitorsEventsCmd())
	cmd.AddCommand(newVisitorsSetEventsCmd())
	return cmd
}

func newVisitorsEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "events <visitor-id> <session-id>",
		Short:   "Show the current visit events of a visitor session",
		Example: "lp visitors events vis123 sess456",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Visitors().Events(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, res, nil)
		}),
	}
}

func newVisitorsSetEventsCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "set-events <visitor-id> <session-id>",
		Short: "Report events for a visitor session",
		Example: strings.TrimSpace(`
  lp visitors set-events vis123 sess456 --data '{"pageView":{"url":"https://example.com"}}'
  lp visitors set-events vis123 sess456 --data @events.json
  cat events.json | lp visitors set-events vis123 sess456 --data -
  lp visitors set-events vis123 sess456 --data @events.json --dry-run
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(data) == "" {
				return &validation.ArgumentError{Field: "data", Reason: "an events JSON payload is required"}
			}
			raw, err := readInput(iocontext.GetIO(cmd.Context()).In, data)
			if err != nil {
				return err
			}
			if err := validation.ValidateJSONPayload(raw); err != nil {
				return err
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "report events for",
				Target:    fmt.Sprintf("visitor %s session %s", args[0], args[1]),
				Method:    http.MethodPost,
				Service:   api.DomainVisitorMonitoring,
				Path:      "monitoring/visitors/" + url.PathEscape(args[0]) + "/visits/current/events",
				Details:   map[string]any{"payload_bytes": len(raw)},
			}); ok || err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Visitors().SetEvents(cmd.Context(), args[0], args[1], json.RawMessage(raw))
			if err != nil {
				return err
			}
			return printResult(cmd, res, func(res api.Result) error {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Events reported for visitor %s (status %d)\n", args[0], res.StatusCode)
				return nil
			})
		}),
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, @file, or - for stdin")

	return cmd
}
