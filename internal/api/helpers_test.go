package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cwsops/liveperson-cli/internal/credentials"
)

const testAccount = "123"

func testBundle(t *testing.T) credentials.Bundle {
	t.Helper()
	b, err := credentials.New(testAccount, "ck", "cs", "at", "ats", "bot")
	if err != nil {
		t.Fatalf("credentials.New: %v", err)
	}
	return b
}

// newFakeAPI serves discovery for every service, pointing each one back at
// the same server. Other requests go to handler.
func newFakeAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/baseURI.json") {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"baseURI":%q}`, strings.TrimPrefix(srv.URL, "http://"))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithDiscoveryURL(serverURL),
		WithStatusURL(serverURL),
		WithInsecure(true),
		WithRetryDelay(time.Millisecond),
	}
	c, err := New(testBundle(t), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return m
}

type logEntry struct {
	level slog.Level
	msg   string
}

// recordingLogger captures every event the executor logs.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Log(_ context.Context, level slog.Level, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) count(level slog.Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) messages(level slog.Level) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}
