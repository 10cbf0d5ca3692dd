package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/iocontext"
	"github.com/cwsops/liveperson-cli/internal/outfmt"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the account status page",
		Long:  "Fetch the LivePerson status endpoint for the configured account (signed request).",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res := client.Status(cmd.Context())
			return printResult(cmd, res, func(res api.Result) error {
				out := iocontext.GetIO(cmd.Context()).Out
				_, _ = fmt.Fprintf(out, "Account: %s\n", client.AccountID())
				_, _ = fmt.Fprintf(out, "Endpoint: %s\n", client.StatusURL())
				return outfmt.WriteJSON(out, res.Body)
			})
		}),
	}
}
