package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/cwsops/liveperson-cli/internal/config"
)

const testAccount = "123"

// captureStdout executes fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureOutput runs the CLI with args and returns stdout, stderr and the
// Execute error.
func captureOutput(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	stderr = captureStderr(t, func() {
		stdout = captureStdout(t, func() {
			err = Execute(context.Background(), args)
		})
	})
	return stdout, stderr, err
}

// useTestKeyring gives the test one in-memory keyring shared by every open.
func useTestKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	t.Cleanup(config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
	return ring
}

// clearCredentialEnv unsets every LP_* credential variable.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LP_ACCOUNT_ID", "LP_CONSUMER_KEY", "LP_CONSUMER_SECRET", "LP_ACCESS_TOKEN", "LP_ACCESS_TOKEN_SECRET", "LP_USERNAME", "LP_PROFILE", "LP_REDIS_URL"} {
		t.Setenv(k, "")
	}
}

// isolateUserConfig points the user config dir at a temp dir so a real
// ~/.config/liveperson-cli/.env is never loaded.
func isolateUserConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("HOME", dir)
}

// testEnv is a fake LivePerson deployment: discovery answers every service
// with the server's own host, so all resource calls land on routes.
type testEnv struct {
	server *httptest.Server
	routes *routeHandler
}

// setupTestEnv starts the fake server and exports LP_* credentials that
// point the CLI at it.
func setupTestEnv(t *testing.T, routes *routeHandler) *testEnv {
	t.Helper()
	isolateUserConfig(t)

	env := &testEnv{routes: routes}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/baseURI.json") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `{"baseURI":%q}`, strings.TrimPrefix(env.server.URL, "http://"))
			return
		}
		routes.ServeHTTP(w, r)
	}))
	t.Cleanup(env.server.Close)

	t.Setenv("LP_ACCOUNT_ID", testAccount)
	t.Setenv("LP_CONSUMER_KEY", "ck-test-key")
	t.Setenv("LP_CONSUMER_SECRET", "cs-test-secret")
	t.Setenv("LP_ACCESS_TOKEN", "at-test-token")
	t.Setenv("LP_ACCESS_TOKEN_SECRET", "ats-test-secret")
	t.Setenv("LP_USERNAME", "api-bot")
	t.Setenv("LP_DISCOVERY_URL", env.server.URL)
	t.Setenv("LP_STATUS_URL", env.server.URL)
	t.Setenv("LP_INSECURE", "1")
	t.Setenv("LP_NO_CACHE", "1")
	t.Setenv("LP_RETRY_DELAY", "1ms")
	t.Setenv("LP_OUTPUT", "text")
	t.Setenv("LP_PROFILE", "")
	return env
}

// accountPath prefixes a resource path with its service and account.
func accountPath(service, rest string) string {
	if service == "" {
		return "/api/account/" + testAccount + "/" + rest
	}
	return "/" + service + "/api/account/" + testAccount + "/" + rest
}

func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes "METHOD PATH" (query excluded) to handlers and
// records every request it sees.
type routeHandler struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler and returns the routeHandler for chaining.
func (h *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	h.routes[method+" "+path] = handler
	return h
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	h.mu.Lock()
	h.requests = append(h.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	handler, ok := h.routes[r.Method+" "+r.URL.Path]
	h.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"no route"}`, http.StatusNotFound)
		return
	}
	handler(w, r)
}

// last returns the most recent request to path.
func (h *routeHandler) last(t *testing.T, path string) recordedRequest {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.requests) - 1; i >= 0; i-- {
		if h.requests[i].Path == path {
			return h.requests[i]
		}
	}
	t.Fatalf("no request to %s", path)
	return recordedRequest{}
}

func (h *routeHandler) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func decodeJSONBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return m
}
