package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/cwsops/liveperson-cli/internal/credentials"
	"github.com/cwsops/liveperson-cli/internal/debug"
)

// Executor performs authenticated JSON calls. Signed calls carry a one-legged
// OAuth 1.0a HMAC-SHA1 signature and are retried with a fixed delay; bearer
// calls carry a token from the injected source and are not retried.
//
// Neither ExecuteSigned nor ExecuteBearer returns a Go error: every failure
// is logged and recorded in the returned Result.
type Executor struct {
	signed *resty.Client
	bearer *resty.Client
	retry  RetryConfig
	logger Logger
	tokens oauth2.TokenSource
}

// contextTokenSource is implemented by token sources that can honour the
// caller's context.
type contextTokenSource interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
}

// invalidator drops a cached token after the API rejected it.
type invalidator interface {
	Invalidate(ctx context.Context)
}

func newExecutor(bundle credentials.Bundle, base *http.Client, o *options) *Executor {
	// oauth1 wraps the transport of the client found in the context.
	signCtx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	signedHTTP := oauth1.NewConfig(bundle.ConsumerKey(), bundle.ConsumerSecret()).
		Client(signCtx, oauth1.NewToken(bundle.AccessToken(), bundle.AccessTokenSecret()))

	plain := *base
	return &Executor{
		signed: newRestyClient(signedHTTP, o),
		bearer: newRestyClient(&plain, o),
		retry:  o.retry,
		logger: o.logger,
		tokens: o.tokenSource,
	}
}

func newRestyClient(hc *http.Client, o *options) *resty.Client {
	return resty.NewWithClient(hc).
		SetTimeout(o.timeout).
		SetLogger(restyLogger{logger: o.logger}).
		SetHeader("User-Agent", o.userAgent).
		SetHeader("Accept", "application/json")
}

// ExecuteSigned sends a signed JSON request. Transport errors, non-2xx
// responses and non-JSON bodies are retried after RetryConfig.Delay until
// RetryConfig.Limit retries have been made. On exhaustion a single critical
// event is logged and a failed Result is returned.
func (e *Executor) ExecuteSigned(ctx context.Context, method, url string, payload any) Result {
	return e.executeSignedAt(ctx, LevelCritical, method, url, payload)
}

// executeSignedAt logs exhaustion at level. Login uses a warning so the bearer
// call that needed the token reports the single critical event.
func (e *Executor) executeSignedAt(ctx context.Context, level slog.Level, method, url string, payload any) Result {
	body, err := encodePayload(method, payload)
	if err != nil {
		e.logger.Log(ctx, level, "client error", "method", method, "url", url, "error", err)
		return failed(err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for attempt := 1; ; attempt++ {
		raw, status, err := e.do(ctx, e.signed, method, url, body, headers, attempt)
		if err == nil {
			return Result{Body: raw, StatusCode: status, Attempts: attempt}
		}

		retries := attempt - 1
		if ctx.Err() != nil || !e.retry.allows(retries) {
			e.logger.Log(ctx, level, fmt.Sprintf("client error: %v", err),
				"method", method, "url", url, "attempts", attempt)
			return Result{StatusCode: status, Attempts: attempt, Err: err}
		}

		e.logger.Log(ctx, slog.LevelInfo, fmt.Sprintf("attempt %d failed, retrying", attempt),
			"delay", e.retry.Delay, "error", err)
		if serr := sleepWithContext(ctx, e.retry.Delay); serr != nil {
			e.logger.Log(ctx, level, fmt.Sprintf("client error: %v", serr),
				"method", method, "url", url, "attempts", attempt)
			return Result{StatusCode: status, Attempts: attempt, Err: err}
		}
	}
}

// ExecuteBearer sends one request authorised with a bearer token. The token
// source logs in on first use. headers are merged over the defaults.
func (e *Executor) ExecuteBearer(ctx context.Context, method, url string, payload any, headers map[string]string) Result {
	body, err := encodePayload(method, payload)
	if err != nil {
		e.logger.Log(ctx, LevelCritical, "client error", "method", method, "url", url, "error", err)
		return failed(err)
	}

	tok, err := e.token(ctx)
	if err != nil {
		e.logger.Log(ctx, LevelCritical, fmt.Sprintf("client error: %v", err), "method", method, "url", url)
		return Result{Attempts: 0, Err: err}
	}

	merged := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": tok.Type() + " " + tok.AccessToken,
	}
	for k, v := range headers {
		merged[k] = v
	}

	raw, status, err := e.do(ctx, e.bearer, method, url, body, merged, 1)
	if err != nil {
		if status == http.StatusUnauthorized {
			if inv, ok := e.tokens.(invalidator); ok {
				inv.Invalidate(ctx)
			}
		}
		e.logger.Log(ctx, LevelCritical, fmt.Sprintf("client error: %v", err), "method", method, "url", url)
		return Result{StatusCode: status, Attempts: 1, Err: err}
	}
	return Result{Body: raw, StatusCode: status, Attempts: 1}
}

func (e *Executor) token(ctx context.Context) (*oauth2.Token, error) {
	if e.tokens == nil {
		return nil, &AuthError{Reason: "no bearer token source configured"}
	}
	var (
		tok *oauth2.Token
		err error
	)
	if src, ok := e.tokens.(contextTokenSource); ok {
		tok, err = src.TokenContext(ctx)
	} else {
		tok, err = e.tokens.Token()
	}
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		return nil, &AuthError{Reason: "obtain bearer token", Err: err}
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, &AuthError{Reason: "token source returned an empty token"}
	}
	return tok, nil
}

// do performs a single HTTP exchange. It returns an error for transport
// failures, non-2xx statuses and non-JSON bodies. An empty 2xx body is a
// success with no content.
func (e *Executor) do(ctx context.Context, client *resty.Client, method, url string, body []byte, headers map[string]string, attempt int) ([]byte, int, error) {
	req := client.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		if debug.IsEnabled(ctx) {
			e.logger.Log(ctx, slog.LevelDebug, "request failed", "method", method, "url", url, "attempt", attempt, "error", err)
		}
		return nil, 0, &TransportError{Method: method, URL: url, Err: err}
	}

	status := resp.StatusCode()
	raw := resp.Body()
	if debug.IsEnabled(ctx) {
		e.logger.Log(ctx, slog.LevelDebug, "request complete", "method", method, "url", url, "status", status, "attempt", attempt, "duration", time.Since(start))
	}

	if !resp.IsSuccess() {
		return raw, status, &APIError{
			StatusCode: status,
			Body:       sanitizeErrorBody(string(raw)),
			RequestID:  requestIDFromHeader(resp.Header()),
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, status, nil
	}
	if !json.Valid(raw) {
		return raw, status, &DecodeError{StatusCode: status, ContentType: resp.Header().Get("Content-Type")}
	}
	return raw, status, nil
}

// encodePayload marshals the request body once so retries resend the same
// bytes. GET and HEAD carry no body; other methods send {} when payload is nil.
func encodePayload(method string, payload any) ([]byte, error) {
	if method == http.MethodGet || method == http.MethodHead {
		return nil, nil
	}
	switch p := payload.(type) {
	case nil:
		return []byte("{}"), nil
	case json.RawMessage:
		return p, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}
