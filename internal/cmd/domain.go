package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/resolve"
)

// serviceCatalog pairs discovery service names with the names people type.
var serviceCatalog = []resolve.Named{
	{ID: api.DomainAgentVep, Name: "agent-vep"},
	{ID: api.DomainEngagementHistory, Name: "engagement-history"},
	{ID: api.DomainMessagingHistory, Name: "messaging-history"},
	{ID: api.DomainDataReporting, Name: "data-reporting"},
	{ID: api.DomainVisitorMonitoring, Name: "visitor-monitoring"},
	{ID: api.DomainAccountConfigRead, Name: "account-config"},
	{ID: api.DomainAccountConfigWrite, Name: "account-config-write"},
	{ID: api.DomainAgentActivity, Name: "agent-activity"},
	{ID: api.DomainMessagingOperations, Name: "messaging-operations"},
}

// resolveServiceName maps user input to a discovery service name. Unknown
// names that fuzzy-match nothing are passed through unchanged.
func resolveServiceName(input string) (string, error) {
	id, err := resolve.FuzzyMatch(input, serviceCatalog)
	if err == nil {
		return id, nil
	}
	var ambiguous *resolve.AmbiguousError
	if errors.As(err, &ambiguous) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func newDomainCmd() *cobra.Command {
	var (
		list bool
		raw  bool
	)

	cmd := &cobra.Command{
		Use:     "domain [service]",
		Aliases: []string{"dom"},
		Short:   "Resolve the host serving a logical service",
		Long: strings.TrimSpace(`
Look up the domain for a logical service through the discovery endpoint.

The service may be the discovery name (msgHist) or a friendly name
(messaging-history); close misspellings are matched.
`),
		Example: strings.TrimSpace(`
  lp domain msgHist
  lp domain visitor --raw
  lp domain --list
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if list || len(args) == 0 {
				return printServiceCatalog(cmd)
			}

			service, err := resolveServiceName(args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			domain, err := client.Domains().Resolve(cmd.Context(), service)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"service": service,
					"domain":  domain,
				})
			}
			if raw {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), domain)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", service, domain)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&list, "list", false, "List known service names")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the domain")

	return cmd
}

func printServiceCatalog(cmd *cobra.Command) error {
	if isJSON(cmd) {
		items := make([]map[string]string, 0, len(serviceCatalog))
		for _, s := range serviceCatalog {
			items = append(items, map[string]string{"service": s.ID, "name": s.Name})
		}
		return printJSON(cmd, items)
	}
	w := newTabWriter(cmd)
	defer func() { _ = w.Flush() }()
	_, _ = fmt.Fprintln(w, "SERVICE\tNAME")
	for _, s := range serviceCatalog {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Name)
	}
	return nil
}
