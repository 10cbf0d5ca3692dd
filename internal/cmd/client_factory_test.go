package cmd

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsops/liveperson-cli/internal/cache"
	"github.com/cwsops/liveperson-cli/internal/config"
)

func TestTokenStoreSelection(t *testing.T) {
	isolateUserConfig(t)
	f := newClientFactory()

	t.Run("disabled", func(t *testing.T) {
		t.Setenv("LP_NO_CACHE", "1")
		assert.Nil(t, f.tokenStore(config.ClientConfig{RedisURL: "redis://localhost:1"}))
	})

	t.Run("file by default", func(t *testing.T) {
		t.Setenv("LP_NO_CACHE", "")
		store := f.tokenStore(config.ClientConfig{})
		_, ok := store.(*cache.FileStore)
		assert.True(t, ok, "got %T", store)
	})

	t.Run("redis when configured", func(t *testing.T) {
		t.Setenv("LP_NO_CACHE", "")
		mr := miniredis.RunT(t)
		store := f.tokenStore(config.ClientConfig{RedisURL: "redis://" + mr.Addr()})
		_, ok := store.(*cache.RedisStore)
		require.True(t, ok, "got %T", store)
		closeTokenStores()
	})

	t.Run("bad redis url falls back to file", func(t *testing.T) {
		t.Setenv("LP_NO_CACHE", "")
		store := f.tokenStore(config.ClientConfig{RedisURL: "://nope"})
		_, ok := store.(*cache.FileStore)
		assert.True(t, ok, "got %T", store)
	})
}

func TestCloseTokenStores(t *testing.T) {
	isolateUserConfig(t)
	t.Setenv("LP_NO_CACHE", "")
	mr := miniredis.RunT(t)

	store := newClientFactory().tokenStore(config.ClientConfig{RedisURL: "redis://" + mr.Addr()})
	rs, ok := store.(*cache.RedisStore)
	require.True(t, ok, "got %T", store)

	closeTokenStores()
	assert.Empty(t, openStores.closers)
	assert.Error(t, rs.Close(), "store should already be closed")
}

func TestExecuteClosesRedisTokenStore(t *testing.T) {
	path := accountPath("", "configuration/le-users/users")
	setupTestEnv(t, withLogin(newRouteHandler(), "tok-1").On(http.MethodGet, path, jsonResponse(http.StatusOK, usersBody)))
	mr := miniredis.RunT(t)
	t.Setenv("LP_NO_CACHE", "")
	t.Setenv("LP_REDIS_URL", "redis://"+mr.Addr())

	_, _, err := captureOutput(t, "users", "list")
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.TokenKey(testAccount, "api-bot")), "token should be cached in redis")
	assert.Empty(t, openStores.closers)
}

func TestClientFactoryOptions(t *testing.T) {
	t.Setenv("LP_NO_CACHE", "1")
	saved := flags
	t.Cleanup(func() { flags = saved })

	f := &clientFactory{userAgent: "liveperson-cli/test", logger: newClientFactory().logger}
	cfg := config.ClientConfig{RetryLimit: 3, RetryDelay: 15 * time.Millisecond}

	flags = rootFlags{}
	base := len(f.options(cfg))

	f.timeout = 5 * time.Second
	assert.Equal(t, base+1, len(f.options(cfg)))
}

func TestRetryFlagOverridesEnv(t *testing.T) {
	path := accountPath("operations", "msgconversation")
	routes := newRouteHandler().On(http.MethodGet, path, jsonResponse(http.StatusBadGateway, `{"error":"bad gateway"}`))
	setupTestEnv(t, routes)
	t.Setenv("LP_RETRY_LIMIT", "5")

	_, _, err := captureOutput(t, "messaging", "conversation", "--retry-limit", "1")
	require.Error(t, err)
	assert.Equal(t, 2, routes.count(path))
}
