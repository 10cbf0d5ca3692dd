// Package credentials holds the immutable account credential bundle used to
// sign requests and log in.
package credentials

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned when a bundle is constructed without every field.
var ErrIncomplete = errors.New("incomplete credential bundle")

// MissingFieldError names the first blank field passed to New.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrIncomplete, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrIncomplete
}

// Bundle is the account identifier plus the secrets for both auth schemes.
// The zero value is not usable; construct with New.
type Bundle struct {
	accountID         string
	consumerKey       string
	consumerSecret    string
	accessToken       string
	accessTokenSecret string
	username          string
}

// New returns a Bundle. Every argument must be non-blank.
func New(accountID, consumerKey, consumerSecret, accessToken, accessTokenSecret, username string) (Bundle, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"account_id", accountID},
		{"consumer_key", consumerKey},
		{"consumer_secret", consumerSecret},
		{"access_token", accessToken},
		{"access_token_secret", accessTokenSecret},
		{"username", username},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Bundle{}, &MissingFieldError{Field: f.name}
		}
	}
	return Bundle{
		accountID:         accountID,
		consumerKey:       consumerKey,
		consumerSecret:    consumerSecret,
		accessToken:       accessToken,
		accessTokenSecret: accessTokenSecret,
		username:          username,
	}, nil
}

func (b Bundle) AccountID() string         { return b.accountID }
func (b Bundle) ConsumerKey() string       { return b.consumerKey }
func (b Bundle) ConsumerSecret() string    { return b.consumerSecret }
func (b Bundle) AccessToken() string       { return b.accessToken }
func (b Bundle) AccessTokenSecret() string { return b.accessTokenSecret }
func (b Bundle) Username() string          { return b.username }

// IsZero reports whether b was never initialised by New.
func (b Bundle) IsZero() bool {
	return b.accountID == ""
}

// String redacts secrets so a bundle can be logged safely.
func (b Bundle) String() string {
	return fmt.Sprintf("account=%s user=%s consumer_key=%s", b.accountID, b.username, redact(b.consumerKey))
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
