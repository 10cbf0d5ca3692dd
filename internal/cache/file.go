package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

type entry struct {
	CachedAt time.Time     `json:"cached_at"`
	Token    *oauth2.Token `json:"token"`
}

// FileStore keeps tokens as JSON files named token_<12hex>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir (typically from DefaultDir).
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, "token_"+hashKey(key)+".json")
}

// Load returns ErrMiss when the file is absent, unreadable, expired or the
// store is disabled.
func (s *FileStore) Load(_ context.Context, key string) (*oauth2.Token, error) {
	if Disabled() {
		return nil, ErrMiss
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, ErrMiss
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, ErrMiss
	}
	if !usable(e.Token) {
		return nil, ErrMiss
	}
	return e.Token, nil
}

// Save writes the token with owner-only permissions.
func (s *FileStore) Save(_ context.Context, key string, tok *oauth2.Token) error {
	if Disabled() || tok == nil {
		return nil
	}
	data, err := json.Marshal(entry{CachedAt: time.Now(), Token: tok})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Atomic-ish write: write temp then rename.
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Delete removes the token file. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearAll removes all token files from dir.
// For safety, it only removes files matching this project's filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isTokenFilename(e.Name()) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}

func isTokenFilename(name string) bool {
	// Expected: "token_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	hash, ok := strings.CutPrefix(strings.TrimSuffix(name, ".json"), "token_")
	return ok && len(hash) == 12 && isHex(hash)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
