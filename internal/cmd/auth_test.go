package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/cwsops/liveperson-cli/internal/cache"
	"github.com/cwsops/liveperson-cli/internal/config"
)

var loginArgs = []string{
	"auth", "login",
	"--account-id", "555",
	"--consumer-key", "consumerkey123",
	"--consumer-secret", "consumersecret",
	"--access-token", "accesstoken987",
	"--access-token-secret", "tokensecret",
	"--username", "bot",
}

func setupAuthEnv(t *testing.T) {
	t.Helper()
	isolateUserConfig(t)
	clearCredentialEnv(t)
	useTestKeyring(t)
	t.Setenv("LP_NO_CACHE", "")
}

func TestAuthLogin_SavesProfile(t *testing.T) {
	setupAuthEnv(t)

	out, _, err := captureOutput(t, append(loginArgs, "--profile", "prod")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Credentials saved.")
	assert.Contains(t, out, "Profile: prod")

	acct, err := config.LoadProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, "555", acct.AccountID)
	assert.Equal(t, "bot", acct.Username)

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "prod", current)
}

func TestAuthLogin_MissingFieldIsUsageError(t *testing.T) {
	setupAuthEnv(t)

	_, stderr, err := captureOutput(t, "auth", "login", "--account-id", "555")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "consumer_key")
}

func TestAuthLogin_EnvFile(t *testing.T) {
	setupAuthEnv(t)

	envFile := filepath.Join(t.TempDir(), "lp.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"LP_ACCOUNT_ID=777\nLP_CONSUMER_KEY=k\nLP_CONSUMER_SECRET=s\nLP_ACCESS_TOKEN=t\nLP_ACCESS_TOKEN_SECRET=ts\nLP_USERNAME=envbot\nLP_PROFILE=staging\n",
	), 0o600))

	_, _, err := captureOutput(t, "auth", "login", "--env-file", envFile, "--username", "flagbot")
	require.NoError(t, err)

	acct, err := config.LoadProfile("staging")
	require.NoError(t, err)
	assert.Equal(t, "777", acct.AccountID)
	assert.Equal(t, "flagbot", acct.Username, "flags win over the env file")
}

func TestAuthStatus_MasksSecrets(t *testing.T) {
	setupAuthEnv(t)
	_, _, err := captureOutput(t, loginArgs...)
	require.NoError(t, err)

	out, _, err := captureOutput(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Account ID: 555")
	assert.Contains(t, out, "cons******y123")
	assert.NotContains(t, out, "consumerkey123")
	assert.Contains(t, out, "Source: keychain")

	out, _, err = captureOutput(t, "auth", "status", "-j")
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, true, payload["authenticated"])
	assert.Equal(t, "default", payload["profile"])
	assert.Equal(t, "acce******n987", payload["access_token"])
}

func TestAuthStatus_FromEnv(t *testing.T) {
	setupTestEnv(t, newRouteHandler())
	useTestKeyring(t)

	out, _, err := captureOutput(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Account ID: "+testAccount)
	assert.Contains(t, out, "Source: env")
	assert.NotContains(t, out, "Profile:")
}

func TestAuthStatus_NotAuthenticated(t *testing.T) {
	setupAuthEnv(t)

	out, _, err := captureOutput(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not authenticated.")
}

func TestAuthProfiles_ListAndUse(t *testing.T) {
	setupAuthEnv(t)
	_, _, err := captureOutput(t, append(loginArgs, "-p", "one")...)
	require.NoError(t, err)
	_, _, err = captureOutput(t, append(loginArgs, "-p", "two")...)
	require.NoError(t, err)

	out, _, err := captureOutput(t, "auth", "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "PROFILE")
	assert.Regexp(t, `\*\s+two`, out)

	out, _, err = captureOutput(t, "auth", "profiles", "use", "one")
	require.NoError(t, err)
	assert.Contains(t, out, "Current profile: one (account 555)")

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "one", current)

	_, _, err = captureOutput(t, "auth", "profiles", "use", "missing")
	require.Error(t, err)
}

func TestAuthLogout_RemovesProfileAndCachedToken(t *testing.T) {
	setupAuthEnv(t)
	_, _, err := captureOutput(t, loginArgs...)
	require.NoError(t, err)

	dir, err := cache.DefaultDir()
	require.NoError(t, err)
	store := cache.NewFileStore(dir)
	key := cache.TokenKey("555", "bot")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, key, &oauth2.Token{AccessToken: "cached", Expiry: time.Now().Add(time.Hour)}))

	out, _, err := captureOutput(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile default removed.")

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, cache.ErrMiss)

	_, err = config.LoadProfile("default")
	assert.ErrorIs(t, err, config.ErrNotConfigured)

	out, _, err = captureOutput(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No credentials found.")
}

func TestAuthLogout_DryRunKeepsProfile(t *testing.T) {
	setupAuthEnv(t)
	_, _, err := captureOutput(t, loginArgs...)
	require.NoError(t, err)

	out, _, err := captureOutput(t, "auth", "logout", "--all-tokens", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY-RUN] Would remove profile default")
	assert.Contains(t, out, "clears: all cached bearer tokens")

	_, err = config.LoadProfile("default")
	assert.NoError(t, err)
}

func TestAuthLogout_ClearsRedisToken(t *testing.T) {
	setupAuthEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("LP_REDIS_URL", "redis://"+mr.Addr())

	_, _, err := captureOutput(t, loginArgs...)
	require.NoError(t, err)

	store, err := cache.NewRedisStoreFromURL("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	key := cache.TokenKey("555", "bot")
	require.NoError(t, store.Save(context.Background(), key, &oauth2.Token{AccessToken: "shared", Expiry: time.Now().Add(time.Hour)}))

	_, _, err = captureOutput(t, "auth", "logout")
	require.NoError(t, err)

	_, err = store.Load(context.Background(), key)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "***", maskToken("abc"))
	assert.Equal(t, "abcd****mnop", maskToken("abcdefghmnop"))
	assert.Equal(t, "", maskToken(""))
}
