package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/cache"
	"github.com/cwsops/liveperson-cli/internal/config"
	"github.com/cwsops/liveperson-cli/internal/dryrun"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage account credentials",
		Long:    "Store LivePerson account credentials (OAuth1 app keys plus the login username) in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())

	return cmd
}

// authEnvKeys maps login flags to the .env keys read by --env-file.
var authEnvKeys = map[string]string{
	"account-id":          "LP_ACCOUNT_ID",
	"consumer-key":        "LP_CONSUMER_KEY",
	"consumer-secret":     "LP_CONSUMER_SECRET",
	"access-token":        "LP_ACCESS_TOKEN",
	"access-token-secret": "LP_ACCESS_TOKEN_SECRET",
	"username":            "LP_USERNAME",
	"discovery-url":       "LP_DISCOVERY_URL",
}

func newAuthLoginCmd() *cobra.Command {
	var (
		account config.Account
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to the keychain",
		Long: strings.TrimSpace(`
Save LivePerson credentials under a profile (default: "default") and make it current.

You'll need, from the account's API key settings:
- Account ID (site id)
- App key and secret (OAuth1 consumer key/secret)
- Access token and access token secret
- The username the app key belongs to (used for bearer token login)
`),
		Example: strings.TrimSpace(`
  lp auth login --account-id 12345678 --consumer-key KEY --consumer-secret SECRET \
    --access-token TOKEN --access-token-secret TSECRET --username api-bot

  # Read LP_* values from a .env file into the "prod" profile
  lp auth login --env-file prod.env --profile prod
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := applyAuthEnvFile(cmd, envFile, &account); err != nil {
					return err
				}
			}
			if account.DiscoveryURL != "" {
				if err := validation.ValidateEndpointURL(account.DiscoveryURL); err != nil {
					return &validation.ArgumentError{Field: "discovery-url", Value: account.DiscoveryURL, Reason: err.Error()}
				}
			}

			profile := flags.Profile
			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"saved":      true,
					"profile":    profileName(profile),
					"account_id": account.AccountID,
					"username":   account.Username,
				})
			}
			_, _ = fmt.Fprintln(out, "Credentials saved.")
			_, _ = fmt.Fprintf(out, "  Account ID: %s\n", account.AccountID)
			_, _ = fmt.Fprintf(out, "  Username: %s\n", account.Username)
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", profileName(profile))
			return nil
		}),
	}

	cmd.Flags().StringVar(&account.AccountID, "account-id", "", "LivePerson account (site) id")
	cmd.Flags().StringVar(&account.ConsumerKey, "consumer-key", "", "OAuth1 app key")
	cmd.Flags().StringVar(&account.ConsumerSecret, "consumer-secret", "", "OAuth1 app secret")
	cmd.Flags().StringVar(&account.AccessToken, "access-token", "", "OAuth1 access token")
	cmd.Flags().StringVar(&account.AccessTokenSecret, "access-token-secret", "", "OAuth1 access token secret")
	cmd.Flags().StringVar(&account.Username, "username", "", "Login name used to obtain bearer tokens")
	cmd.Flags().StringVar(&account.DiscoveryURL, "discovery-url", "", "Override the domain discovery endpoint")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load LP_* values from a .env file")
	flagAlias(cmd.Flags(), "account-id", "aid")
	flagAlias(cmd.Flags(), "consumer-key", "ck")
	flagAlias(cmd.Flags(), "consumer-secret", "cs")
	flagAlias(cmd.Flags(), "access-token", "at")
	flagAlias(cmd.Flags(), "access-token-secret", "ats")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

// applyAuthEnvFile fills fields that were not set by flags from a .env file.
func applyAuthEnvFile(cmd *cobra.Command, path string, account *config.Account) error {
	envVars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}
	targets := map[string]*string{
		"account-id":          &account.AccountID,
		"consumer-key":        &account.ConsumerKey,
		"consumer-secret":     &account.ConsumerSecret,
		"access-token":        &account.AccessToken,
		"access-token-secret": &account.AccessTokenSecret,
		"username":            &account.Username,
		"discovery-url":       &account.DiscoveryURL,
	}
	for flagName, field := range targets {
		if flagOrAliasChanged(cmd, flagName) {
			continue
		}
		if v := strings.TrimSpace(envVars[authEnvKeys[flagName]]); v != "" {
			*field = v
		}
	}
	if !flagOrAliasChanged(cmd, "profile") {
		if p := strings.TrimSpace(envVars["LP_PROFILE"]); p != "" {
			flags.Profile = p
		}
	}
	return nil
}

func profileName(p string) string {
	if p == "" {
		if current, err := config.CurrentProfile(); err == nil {
			return current
		}
		return "default"
	}
	return p
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Long:  "Display the credentials lp will use. Secrets are masked.",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			usingEnv := strings.TrimSpace(os.Getenv("LP_ACCOUNT_ID")) != ""

			var (
				account config.Account
				err     error
			)
			if flags.Profile != "" && !usingEnv {
				account, err = config.LoadProfile(flags.Profile)
			} else {
				account, err = config.LoadAccount()
			}
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'lp auth login' to configure credentials.",
						})
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not authenticated.")
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'lp auth login' to configure credentials.")
					return nil
				}
				return err
			}

			source := "keychain"
			profile := ""
			if usingEnv {
				source = "env"
			} else {
				profile = profileName(flags.Profile)
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated":       true,
					"account_id":          account.AccountID,
					"username":            account.Username,
					"consumer_key":        maskToken(account.ConsumerKey),
					"consumer_secret":     maskToken(account.ConsumerSecret),
					"access_token":        maskToken(account.AccessToken),
					"access_token_secret": maskToken(account.AccessTokenSecret),
					"source":              source,
				}
				if profile != "" {
					payload["profile"] = profile
				}
				if account.DiscoveryURL != "" {
					payload["discovery_url"] = account.DiscoveryURL
				}
				return printJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Authenticated")
			_, _ = fmt.Fprintf(out, "  Account ID: %s\n", account.AccountID)
			_, _ = fmt.Fprintf(out, "  Username: %s\n", account.Username)
			_, _ = fmt.Fprintf(out, "  Consumer Key: %s\n", maskToken(account.ConsumerKey))
			_, _ = fmt.Fprintf(out, "  Access Token: %s\n", maskToken(account.AccessToken))
			if account.DiscoveryURL != "" {
				_, _ = fmt.Fprintf(out, "  Discovery URL: %s\n", account.DiscoveryURL)
			}
			if profile != "" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove a profile and its cached bearer token",
		Example: strings.TrimSpace(`
  lp auth logout
  lp auth logout --profile staging
  lp auth logout --all-tokens
  lp auth logout --profile staging --dry-run
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			account, err := config.LoadProfile(profile)
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No credentials found.")
					return nil
				}
				return err
			}

			tokens := "cached bearer token"
			if all {
				tokens = "all cached bearer tokens"
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "remove",
				Target:    "profile " + profile,
				Details:   map[string]any{"account": account.AccountID, "clears": tokens},
			}); ok || err != nil {
				return err
			}

			forgetToken(cmd.Context(), account, all)

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed.\n", profile)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&all, "all-tokens", false, "Also clear every cached bearer token on disk")

	return cmd
}

// forgetToken drops the cached bearer token for account. Failures are
// ignored; the token expires on its own.
func forgetToken(ctx context.Context, account config.Account, all bool) {
	if cache.Disabled() {
		return
	}
	key := cache.TokenKey(account.AccountID, account.Username)
	if u := strings.TrimSpace(os.Getenv("LP_REDIS_URL")); u != "" {
		if store, err := cache.NewRedisStoreFromURL(u); err == nil {
			_ = store.Delete(ctx, key)
			_ = store.Close()
		}
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return
	}
	if all {
		cache.ClearAll(dir)
		return
	}
	_ = cache.NewFileStore(dir).Delete(ctx, key)
}

func newAuthProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "List stored profiles",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"current":  current,
					"profiles": profiles,
				})
			}

			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured. Run 'lp auth login' to add one.")
				return nil
			}

			w := newTabWriter(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintln(w, "CURRENT\tPROFILE\tACCOUNT\tUSERNAME")
			for _, profile := range profiles {
				marker := ""
				if profile == current {
					marker = "*"
				}
				accountID, username := "-", "-"
				if account, err := config.LoadProfile(profile); err == nil {
					accountID, username = account.AccountID, account.Username
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, profile, accountID, username)
			}
			return nil
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "use <name>",
		Short:   "Switch the current profile",
		Example: "lp auth profiles use staging",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := args[0]
			account, err := config.LoadProfile(name)
			if err != nil {
				return fmt.Errorf("profile %q not found: %w", name, err)
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Current profile: %s (account %s)\n", name, account.AccountID)
			return nil
		}),
	})

	return cmd
}

// maskToken masks a secret for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
