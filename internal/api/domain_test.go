package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

func TestDomainResolver_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDomain string
		wantErr    error
	}{
		{"baseURI", http.StatusOK, `{"service":"smt","account":"123","baseURI":"va.smt.example.net"}`, "va.smt.example.net", nil},
		{"baseUri spelling", http.StatusOK, `{"baseUri":"va.smt.example.net"}`, "va.smt.example.net", nil},
		{"missing field", http.StatusOK, `{"service":"smt"}`, "", ErrNoBaseURI},
		{"url instead of host", http.StatusOK, `{"baseURI":"https://evil.example/x"}`, "", nil},
		{"metadata host", http.StatusOK, `{"baseURI":"169.254.169.254"}`, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("Expected GET, got %s", r.Method)
				}
				if r.URL.Path != "/api/account/123/service/smt/baseURI.json" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("version") != "1.0" {
					t.Errorf("expected version=1.0, got %q", r.URL.RawQuery)
				}
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			domain, err := c.Domains().Resolve(context.Background(), DomainVisitorMonitoring)
			if tt.wantDomain != "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if domain != tt.wantDomain {
					t.Errorf("domain = %q, want %q", domain, tt.wantDomain)
				}
				return
			}
			if !IsDomainError(err) {
				t.Fatalf("expected DomainError, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDomainResolver_ServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithRetryLimit(2))
	_, err := c.Domains().Resolve(context.Background(), DomainDataReporting)

	var domErr *DomainError
	if !errors.As(err, &domErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domErr.Service != DomainDataReporting {
		t.Errorf("unexpected service %q", domErr.Service)
	}
	if !IsServerError(err) {
		t.Errorf("expected wrapped server error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected executor retries only (3 calls), got %d", calls)
	}
}

func TestDomainResolver_BlankService(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	_, err := c.Domains().Resolve(context.Background(), "  ")
	if !validation.IsArgumentError(err) {
		t.Errorf("expected argument error, got %v", err)
	}
}

func TestDomainResolver_DiscoveryURL(t *testing.T) {
	c := newTestClient(t, "https://discovery.example.com")
	got := c.Domains().DiscoveryURL("msgHist")
	want := "https://discovery.example.com/api/account/123/service/msgHist/baseURI.json?version=1.0"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
