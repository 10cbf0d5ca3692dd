// Package cache persists bearer tokens between runs so a fresh process does
// not log in again while a previously issued token is still valid.
//
// Two stores are provided: FileStore keeps one JSON file per key in the user
// cache directory, RedisStore shares tokens between hosts. Disable both with
// LP_NO_CACHE=1.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ErrMiss is returned by Load when no valid token is stored under the key.
var ErrMiss = errors.New("cache miss")

// TokenStore loads and saves bearer tokens.
type TokenStore interface {
	Load(ctx context.Context, key string) (*oauth2.Token, error)
	Save(ctx context.Context, key string, tok *oauth2.Token) error
	Delete(ctx context.Context, key string) error
}

// TokenKey scopes a token to an account and login user.
func TokenKey(accountID, username string) string {
	return "lp:token:" + strings.TrimSpace(accountID) + ":" + strings.TrimSpace(username)
}

// DefaultDir returns the platform-appropriate cache directory.
// Returns "$XDG_CACHE_HOME/liveperson-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "liveperson-cli"), nil
}

// Disabled reports whether token caching is turned off via LP_NO_CACHE.
func Disabled() bool {
	return os.Getenv("LP_NO_CACHE") != ""
}

func usable(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	return tok.Expiry.IsZero() || time.Now().Before(tok.Expiry)
}

func hashKey(key string) string {
	hash := sha1.Sum([]byte(key))
	return hex.EncodeToString(hash[:6])
}
