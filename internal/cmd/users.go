package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "us"},
		Short:   "Account users",
		Long:    "Read account users from the users configuration API. These calls use a bearer token obtained by logging in with the stored username.",
	}
	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	return cmd
}

func newUsersListCmd() *cobra.Command {
	var includeDeleted bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Example: strings.TrimSpace(`
  lp users list
  lp users list -o json -q '[.[] | select(.isEnabled) | .loginName]'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Users().List(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, res, func(res api.Result) error {
				users, err := api.DecodeUsers(res)
				if err != nil {
					return err
				}
				w := newTabWriter(cmd)
				defer func() { _ = w.Flush() }()
				_, _ = fmt.Fprintln(w, "ID\tLOGIN\tNAME\tENABLED\tMAX_CHATS\tSKILLS")
				for _, u := range users {
					if u.Deleted && !includeDeleted {
						continue
					}
					skills := make([]string, len(u.SkillIDs))
					for i, id := range u.SkillIDs {
						skills[i] = id.String()
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%s\n",
						u.ID, u.LoginName, u.FullName, u.IsEnabled, u.MaxChats, strings.Join(skills, ","))
				}
				return nil
			})
		}),
	}

	cmd.Flags().BoolVar(&includeDeleted, "deleted", false, "Include deleted users in the table")

	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		Short:   "Show one user",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.Users().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res, func(res api.Result) error {
				m := res.Map()
				out := cmd.OutOrStdout()
				for _, field := range []struct{ label, path string }{
					{"ID", "id"},
					{"Login", "loginName"},
					{"Name", "fullName"},
					{"Nickname", "nickname"},
					{"Email", "email"},
					{"Enabled", "isEnabled"},
					{"Max chats", "maxChats"},
					{"Skills", "skillIds"},
				} {
					_, _ = fmt.Fprintf(out, "%s: %s\n", field.label, lookupPath(m, field.path))
				}
				return nil
			})
		}),
	}
}
