package api

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/cwsops/liveperson-cli/internal/cache"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultTokenTTL     = 25 * time.Minute
	DefaultDiscoveryURL = "https://api.liveperson.net"
	DefaultStatusURL    = "https://status.liveperson.com"
	DefaultUserAgent    = "liveperson-cli"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	retry        RetryConfig
	logger       Logger
	httpClient   *http.Client
	timeout      time.Duration
	discoveryURL string
	statusURL    string
	insecure     bool
	tokenSource  oauth2.TokenSource
	tokenStore   cache.TokenStore
	tokenTTL     time.Duration
	userAgent    string
}

func newOptions() *options {
	return &options{
		retry:        DefaultRetryConfig(),
		logger:       NoopLogger{},
		timeout:      DefaultTimeout,
		discoveryURL: DefaultDiscoveryURL,
		statusURL:    DefaultStatusURL,
		tokenTTL:     DefaultTokenTTL,
		userAgent:    DefaultUserAgent,
	}
}

// WithRetryLimit sets the number of retries for signed calls: -1 for
// unlimited, otherwise 0 to 5. Out of range values make New fail.
func WithRetryLimit(limit int) Option {
	return func(o *options) {
		o.retry.Limit = limit
	}
}

// WithRetryDelay sets the fixed pause between retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		o.retry.Delay = delay
	}
}

// WithLogger sets the diagnostic sink. A nil logger keeps the default.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHTTPClient replaces the base HTTP client. Signed requests wrap its
// transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithDiscoveryURL overrides the service discovery endpoint.
func WithDiscoveryURL(u string) Option {
	return func(o *options) {
		if u = strings.TrimSuffix(strings.TrimSpace(u), "/"); u != "" {
			o.discoveryURL = u
		}
	}
}

// WithStatusURL overrides the account status endpoint.
func WithStatusURL(u string) Option {
	return func(o *options) {
		if u = strings.TrimSuffix(strings.TrimSpace(u), "/"); u != "" {
			o.statusURL = u
		}
	}
}

// WithInsecure builds resource URLs with the http scheme.
func WithInsecure(insecure bool) Option {
	return func(o *options) {
		o.insecure = insecure
	}
}

// WithTokenSource replaces the login flow as the bearer token source.
func WithTokenSource(src oauth2.TokenSource) Option {
	return func(o *options) {
		o.tokenSource = src
	}
}

// WithTokenStore persists bearer tokens across processes.
func WithTokenStore(store cache.TokenStore) Option {
	return func(o *options) {
		o.tokenStore = store
	}
}

// WithTokenTTL sets how long a freshly issued bearer token is trusted.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.tokenTTL = ttl
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua = strings.TrimSpace(ua); ua != "" {
			o.userAgent = ua
		}
	}
}
