package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwsops/liveperson-cli/internal/credentials"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

const (
	DefaultRetryLimit = 3
	DefaultRetryDelay = 15 * time.Millisecond
	DefaultTokenTTL   = 25 * time.Minute

	envRetryLimit   = "LP_RETRY_LIMIT"
	envRetryDelay   = "LP_RETRY_DELAY"
	envTokenTTL     = "LP_TOKEN_TTL"
	envDiscoveryURL = "LP_DISCOVERY_URL"
	envStatusURL    = "LP_STATUS_URL"
	envRedisURL     = "LP_REDIS_URL"
	envInsecure     = "LP_INSECURE"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	Bundle       credentials.Bundle
	RetryLimit   int
	RetryDelay   time.Duration
	TokenTTL     time.Duration
	DiscoveryURL string
	StatusURL    string
	RedisURL     string
	Insecure     bool
}

// ResolveClientConfig loads credentials for profile (or the current profile
// when empty) and applies LP_* tuning variables:
//   - LP_RETRY_LIMIT: retries for signed calls, -1 for unlimited (default: 3)
//   - LP_RETRY_DELAY: fixed delay between retries (default: "15ms")
//   - LP_TOKEN_TTL: bearer token lifetime (default: "25m")
//   - LP_DISCOVERY_URL, LP_STATUS_URL: endpoint overrides
//   - LP_REDIS_URL: share bearer tokens through Redis
//   - LP_INSECURE: build resource URLs with http (gateways and tests)
func ResolveClientConfig(profile string) (ClientConfig, error) {
	var (
		account Account
		err     error
	)
	if profile != "" && envString(envAccountID) == "" {
		account, err = LoadProfile(profile)
	} else {
		account, err = LoadAccount()
	}
	if err != nil {
		return ClientConfig{}, err
	}

	bundle, err := account.Bundle()
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		Bundle:       bundle,
		RetryLimit:   getEnvInt(envRetryLimit, DefaultRetryLimit),
		RetryDelay:   getEnvDuration(envRetryDelay, DefaultRetryDelay),
		TokenTTL:     getEnvDuration(envTokenTTL, DefaultTokenTTL),
		DiscoveryURL: account.DiscoveryURL,
		StatusURL:    envString(envStatusURL),
		RedisURL:     envString(envRedisURL),
		Insecure:     getEnvBool(envInsecure),
	}
	if u := envString(envDiscoveryURL); u != "" {
		cfg.DiscoveryURL = u
	}

	if err := validation.ValidateRetryLimit(cfg.RetryLimit); err != nil {
		return ClientConfig{}, fmt.Errorf("%s: %w", envRetryLimit, err)
	}
	for name, u := range map[string]string{envDiscoveryURL: cfg.DiscoveryURL, envStatusURL: cfg.StatusURL} {
		if u == "" {
			continue
		}
		if err := validation.ValidateEndpointURL(u); err != nil {
			return ClientConfig{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return cfg, nil
}

// getEnvInt reads an integer from an environment variable with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration from an environment variable with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool reports whether an environment variable holds a true value.
func getEnvBool(key string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && parsed
}
