package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/config"
	"github.com/cwsops/liveperson-cli/internal/urlbuilder"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

func newURLCmd() *cobra.Command {
	var (
		domain   string
		service  string
		account  string
		action   string
		actCtx   string
		version  string
		params   []string
		legacy   bool
		insecure bool
	)

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Assemble a resource URL without calling the API",
		Long: strings.TrimSpace(`
Build an account-scoped resource URL from its parts.

The account defaults to the active profile's account when --account is not
given. --legacy reproduces the legacy serialisation: every segment ends in
a slash and query pairs are concatenated without separators.
`),
		Example: strings.TrimSpace(`
  lp url --domain va.data.liveperson.net --service operations --action msgconversation \
    --param timeframe=60 --version 1

  lp url --domain d --service s --account 123 --action act --context c --legacy
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if version != "" {
				if err := validation.ValidateAPIVersion(version); err != nil {
					return err
				}
			}
			if account == "" {
				if acct, err := config.LoadAccount(); err == nil {
					account = acct.AccountID
				}
			}

			a := urlbuilder.NewAssembler()
			if legacy {
				a.UseFormat(urlbuilder.FormatLegacy)
			} else {
				a.UseFormat(urlbuilder.FormatStandard)
			}
			a.HasQueryParam(len(params) > 0)

			steps := []error{
				a.Create(!insecure),
				a.SetDomain(domain),
				a.SetService(service),
				a.SetAccount(account),
				a.SetAction(action),
				a.AddActionContext(actCtx),
			}
			if version != "" {
				steps = append(steps, a.SetVersion(version))
			}
			for _, err := range steps {
				if err != nil {
					return err
				}
			}
			for _, p := range params {
				key, value, ok := strings.Cut(p, "=")
				if !ok || strings.TrimSpace(key) == "" {
					return &validation.ArgumentError{Field: "param", Value: p, Reason: "must be key=value"}
				}
				a.AddQueryParam(key, value)
			}

			a.Build()
			u, err := a.URL()
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"url": u})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		}),
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Host, e.g. va.data.liveperson.net")
	cmd.Flags().StringVar(&service, "service", "", "Service path segment")
	cmd.Flags().StringVar(&account, "account", "", "Account id (default: active profile)")
	cmd.Flags().StringVar(&action, "action", "", "Action path")
	cmd.Flags().StringVar(&actCtx, "context", "", "Action context segment")
	cmd.Flags().StringVar(&version, "version", "", "API version (default 1)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use the legacy serialisation")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Use http instead of https")

	return cmd
}
