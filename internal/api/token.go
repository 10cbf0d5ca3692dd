package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/cwsops/liveperson-cli/internal/cache"
	"github.com/cwsops/liveperson-cli/internal/credentials"
)

// LoginAPIVersion is the version of the login endpoint.
const LoginAPIVersion = "1.3"

type loginRequest struct {
	Username          string `json:"username"`
	AppKey            string `json:"appKey"`
	Secret            string `json:"secret"`
	AccessToken       string `json:"accessToken"`
	AccessTokenSecret string `json:"accessTokenSecret"`
}

type loginResponse struct {
	Bearer string `json:"bearer"`
}

// LoginTokenSource obtains bearer tokens by posting the credential bundle to
// the login endpoint of the agentVep domain. Every call logs in; wrap it in a
// TokenProvider to reuse tokens.
type LoginTokenSource struct {
	exec    *Executor
	domains *DomainResolver
	bundle  credentials.Bundle
	ttl     time.Duration
	secure  bool
	now     func() time.Time
}

// Token implements oauth2.TokenSource.
func (s *LoginTokenSource) Token() (*oauth2.Token, error) {
	return s.TokenContext(context.Background())
}

// LoginURL returns the login endpoint on domain.
func (s *LoginTokenSource) LoginURL(domain string) string {
	return buildResourceURL(s.secure, domain, s.bundle.AccountID(), endpoint{
		action:  "login",
		version: LoginAPIVersion,
	})
}

// TokenContext logs in and returns a token trusted for the configured TTL.
func (s *LoginTokenSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	domain, err := s.domains.Resolve(ctx, DomainAgentVep)
	if err != nil {
		return nil, &AuthError{Reason: "resolve login domain", Err: err}
	}

	res := s.exec.executeSignedAt(ctx, slog.LevelWarn, http.MethodPost, s.LoginURL(domain), loginRequest{
		Username:          s.bundle.Username(),
		AppKey:            s.bundle.ConsumerKey(),
		Secret:            s.bundle.ConsumerSecret(),
		AccessToken:       s.bundle.AccessToken(),
		AccessTokenSecret: s.bundle.AccessTokenSecret(),
	})
	if res.Err != nil {
		return nil, &AuthError{Reason: "login failed", Err: res.Err}
	}

	var body loginResponse
	if err := res.Decode(&body); err != nil {
		return nil, &AuthError{Reason: "decode login response", Err: err}
	}
	if strings.TrimSpace(body.Bearer) == "" {
		return nil, &AuthError{Reason: "login response has no bearer token"}
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return &oauth2.Token{
		AccessToken: body.Bearer,
		TokenType:   "Bearer",
		Expiry:      now().Add(s.ttl),
	}, nil
}

// TokenProvider hands out a cached bearer token and fetches a new one only
// when none is held or the held one has expired. Concurrent fetches are
// collapsed into one. When a store is configured, tokens survive the process.
type TokenProvider struct {
	src    oauth2.TokenSource
	store  cache.TokenStore
	key    string
	logger Logger

	mu    sync.Mutex
	tok   *oauth2.Token
	reuse oauth2.TokenSource
	group singleflight.Group
}

// NewTokenProvider wraps src. Sources without context support are wrapped in
// oauth2.ReuseTokenSource. store may be nil; key scopes stored tokens, see
// cache.TokenKey.
func NewTokenProvider(src oauth2.TokenSource, store cache.TokenStore, key string) *TokenProvider {
	p := &TokenProvider{src: src, store: store, key: key, logger: NoopLogger{}}
	p.resetReuse()
	return p
}

func (p *TokenProvider) resetReuse() {
	if _, ok := p.src.(contextTokenSource); ok {
		p.reuse = nil
		return
	}
	p.reuse = oauth2.ReuseTokenSource(nil, p.src)
}

// SetLogger sets where store failures are reported.
func (p *TokenProvider) SetLogger(logger Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Token implements oauth2.TokenSource.
func (p *TokenProvider) Token() (*oauth2.Token, error) {
	return p.TokenContext(context.Background())
}

// TokenContext returns the held token while it is valid, otherwise loads it
// from the store or fetches a fresh one.
func (p *TokenProvider) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	if tok := p.current(); tok != nil {
		return tok, nil
	}

	v, err, _ := p.group.Do("token", func() (any, error) {
		if tok := p.current(); tok != nil {
			return tok, nil
		}
		if tok := p.load(ctx); tok != nil {
			p.set(tok)
			return tok, nil
		}
		tok, err := p.fetch(ctx)
		if err != nil {
			return nil, err
		}
		p.save(ctx, tok)
		p.set(tok)
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

// Invalidate drops the held token and its stored copy so the next call logs
// in again.
func (p *TokenProvider) Invalidate(ctx context.Context) {
	p.mu.Lock()
	p.tok = nil
	p.resetReuse()
	p.mu.Unlock()

	if p.store == nil {
		return
	}
	if err := p.store.Delete(ctx, p.key); err != nil {
		p.logger.Log(ctx, slog.LevelWarn, "failed to delete cached token", "error", err)
	}
}

func (p *TokenProvider) current() *oauth2.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tok.Valid() {
		return p.tok
	}
	return nil
}

func (p *TokenProvider) set(tok *oauth2.Token) {
	p.mu.Lock()
	p.tok = tok
	p.mu.Unlock()
}

func (p *TokenProvider) fetch(ctx context.Context) (*oauth2.Token, error) {
	if src, ok := p.src.(contextTokenSource); ok {
		return src.TokenContext(ctx)
	}
	p.mu.Lock()
	reuse := p.reuse
	p.mu.Unlock()
	return reuse.Token()
}

func (p *TokenProvider) load(ctx context.Context) *oauth2.Token {
	if p.store == nil {
		return nil
	}
	tok, err := p.store.Load(ctx, p.key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			p.logger.Log(ctx, slog.LevelWarn, "failed to read cached token", "error", err)
		}
		return nil
	}
	if !tok.Valid() {
		return nil
	}
	return tok
}

func (p *TokenProvider) save(ctx context.Context, tok *oauth2.Token) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(ctx, p.key, tok); err != nil {
		p.logger.Log(ctx, slog.LevelWarn, "failed to cache token", "error", err)
	}
}
