package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func withReleaseServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	orig := ReleasesURL
	ReleasesURL = server.URL
	t.Cleanup(func() {
		server.Close()
		ReleasesURL = orig
	})
}

func TestNormalizeVersion(t *testing.T) {
	for in, want := range map[string]string{"1.0.0": "v1.0.0", "v2.3.4": "v2.3.4", "": "v"} {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckForUpdate_DevVersion(t *testing.T) {
	if CheckForUpdate(context.Background(), "dev") != nil {
		t.Error("expected nil for dev build")
	}
	if CheckForUpdate(context.Background(), "") != nil {
		t.Error("expected nil for empty version")
	}
}

func TestCheckForUpdate(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		tag       string
		available bool
	}{
		{"newer", "1.0.0", "v1.2.0", true},
		{"same", "1.2.0", "v1.2.0", false},
		{"older", "v2.0.0", "v1.9.9", false},
		{"invalid tag", "1.0.0", "latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
					t.Errorf("Accept = %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"tag_name":"` + tt.tag + `","html_url":"https://example.com/r"}`))
			})
			res := CheckForUpdate(context.Background(), tt.current)
			if res == nil {
				t.Fatal("expected result")
			}
			if res.UpdateAvailable != tt.available {
				t.Errorf("UpdateAvailable = %v, want %v", res.UpdateAvailable, tt.available)
			}
			if res.UpdateURL != "https://example.com/r" {
				t.Errorf("UpdateURL = %q", res.UpdateURL)
			}
		})
	}
}

func TestCheckForUpdate_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		if CheckForUpdate(context.Background(), "1.0.0") != nil {
			t.Error("expected nil on 500")
		}
	})
	t.Run("bad json", func(t *testing.T) {
		withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{not json`))
		})
		if CheckForUpdate(context.Background(), "1.0.0") != nil {
			t.Error("expected nil on malformed body")
		}
	})
}
