package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if isJSON(cmd) {
				payload := map[string]any{"version": version}
				if check {
					if res := update.CheckForUpdate(cmd.Context(), version); res != nil {
						payload["latest"] = res.LatestVersion
						payload["update_available"] = res.UpdateAvailable
					}
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lp version %s\n", version)
			if !check {
				return nil
			}
			// Fails silently; never blocks the CLI.
			result := update.CheckForUpdate(cmd.Context(), version)
			if result != nil && result.UpdateAvailable {
				errOut := cmd.ErrOrStderr()
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", result.UpdateURL)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", true, "Check GitHub for a newer release")

	return cmd
}
