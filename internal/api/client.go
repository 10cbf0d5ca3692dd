package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cwsops/liveperson-cli/internal/cache"
	"github.com/cwsops/liveperson-cli/internal/credentials"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

// Client is the LivePerson API client. It owns one credential bundle, one
// executor and the bearer token provider for that account.
//
// A Client is safe for concurrent use; calls themselves are synchronous.
type Client struct {
	bundle    credentials.Bundle
	exec      *Executor
	domains   *DomainResolver
	tokens    *TokenProvider
	statusURL string
	secure    bool
	logger    Logger
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

// New creates a client for the account in bundle. It fails when the bundle is
// incomplete, the retry limit is outside [-1, 5] or an endpoint override is
// not an http(s) URL.
func New(bundle credentials.Bundle, opts ...Option) (*Client, error) {
	if bundle.IsZero() {
		return nil, fmt.Errorf("new client: %w", credentials.ErrIncomplete)
	}

	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.retry.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidateEndpointURL(o.discoveryURL); err != nil {
		return nil, fmt.Errorf("discovery URL: %w", err)
	}
	if err := validation.ValidateEndpointURL(o.statusURL); err != nil {
		return nil, fmt.Errorf("status URL: %w", err)
	}

	base := o.httpClient
	if base == nil {
		base = newHTTPClient(o)
	}

	exec := newExecutor(bundle, base, o)
	domains := &DomainResolver{exec: exec, discovery: o.discoveryURL, account: bundle.AccountID()}

	src := o.tokenSource
	if src == nil {
		src = &LoginTokenSource{
			exec:    exec,
			domains: domains,
			bundle:  bundle,
			ttl:     o.tokenTTL,
			secure:  !o.insecure,
		}
	}
	tokens := NewTokenProvider(src, o.tokenStore, cache.TokenKey(bundle.AccountID(), bundle.Username()))
	tokens.SetLogger(o.logger)
	exec.tokens = tokens

	return &Client{
		bundle:    bundle,
		exec:      exec,
		domains:   domains,
		tokens:    tokens,
		statusURL: o.statusURL,
		secure:    !o.insecure,
		logger:    o.logger,
	}, nil
}

func newHTTPClient(o *options) *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	return &http.Client{
		Timeout:   o.timeout,
		Transport: transport,
	}
}

// AccountID returns the account the client acts for.
func (c *Client) AccountID() string {
	return c.bundle.AccountID()
}

// Executor returns the request executor, for calls the façade does not cover.
func (c *Client) Executor() *Executor {
	return c.exec
}

// Domains returns the service domain resolver.
func (c *Client) Domains() *DomainResolver {
	return c.domains
}

// Tokens returns the bearer token provider.
func (c *Client) Tokens() *TokenProvider {
	return c.tokens
}

// StatusURL returns the account status endpoint.
func (c *Client) StatusURL() string {
	return c.statusURL + "/json?site=" + url.QueryEscape(c.bundle.AccountID())
}

// Status reports the platform status for the account with a signed GET.
func (c *Client) Status(ctx context.Context) Result {
	return c.exec.ExecuteSigned(ctx, http.MethodGet, c.StatusURL(), nil)
}

func (c *Client) resolveDomain(ctx context.Context, service string) (string, error) {
	return c.domains.Resolve(ctx, service)
}

func (c *Client) resourceURL(domain string, ep endpoint) string {
	return buildResourceURL(c.secure, domain, c.bundle.AccountID(), ep)
}

func (c *Client) executeSigned(ctx context.Context, method, url string, payload any) Result {
	return c.exec.ExecuteSigned(ctx, method, url, payload)
}

func (c *Client) executeBearer(ctx context.Context, method, url string, payload any, headers map[string]string) Result {
	return c.exec.ExecuteBearer(ctx, method, url, payload, headers)
}
