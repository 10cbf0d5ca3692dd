package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/cache"
	"github.com/cwsops/liveperson-cli/internal/config"
)

type clientFactory struct {
	profile   string
	timeout   time.Duration
	userAgent string
	logger    api.Logger
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		profile:   flags.Profile,
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("liveperson-cli/%s", version),
		logger:    slog.Default(),
	}
}

func (f *clientFactory) client() (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(f.profile)
	if err != nil {
		return nil, err
	}
	return api.New(cfg.Bundle, f.options(cfg)...)
}

func (f *clientFactory) options(cfg config.ClientConfig) []api.Option {
	retryLimit := cfg.RetryLimit
	if flags.RetryLimitSet {
		retryLimit = flags.RetryLimit
	}
	retryDelay := cfg.RetryDelay
	if flags.RetryDelaySet {
		retryDelay = flags.RetryDelay
	}

	opts := []api.Option{
		api.WithRetryLimit(retryLimit),
		api.WithRetryDelay(retryDelay),
		api.WithTokenTTL(cfg.TokenTTL),
		api.WithDiscoveryURL(cfg.DiscoveryURL),
		api.WithStatusURL(cfg.StatusURL),
		api.WithInsecure(cfg.Insecure),
		api.WithUserAgent(f.userAgent),
		api.WithLogger(f.logger),
	}
	if f.timeout > 0 {
		opts = append(opts, api.WithTimeout(f.timeout))
	}
	if store := f.tokenStore(cfg); store != nil {
		opts = append(opts, api.WithTokenStore(store))
	}
	return opts
}

// tokenStore picks Redis when LP_REDIS_URL is set, otherwise the file cache.
// Both are skipped with LP_NO_CACHE.
func (f *clientFactory) tokenStore(cfg config.ClientConfig) cache.TokenStore {
	if cache.Disabled() {
		return nil
	}
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStoreFromURL(cfg.RedisURL)
		if err == nil {
			trackStore(store)
			return store
		}
		f.logger.Log(context.Background(), slog.LevelWarn, "redis token store unavailable, using file cache", "error", err)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil
	}
	return cache.NewFileStore(dir)
}

// openStores holds token stores with connections to release once the
// command finishes.
var openStores struct {
	mu      sync.Mutex
	closers []io.Closer
}

func trackStore(c io.Closer) {
	openStores.mu.Lock()
	defer openStores.mu.Unlock()
	openStores.closers = append(openStores.closers, c)
}

func closeTokenStores() {
	openStores.mu.Lock()
	closers := openStores.closers
	openStores.closers = nil
	openStores.mu.Unlock()

	for _, c := range closers {
		if err := c.Close(); err != nil {
			slog.Debug("close token store", "error", err)
		}
	}
}
