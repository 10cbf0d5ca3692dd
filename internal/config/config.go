// Package config stores LivePerson credential profiles in the OS keyring and
// resolves client settings from profiles and LP_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"

	"github.com/cwsops/liveperson-cli/internal/credentials"
)

const (
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"

	envProfile           = "LP_PROFILE"
	envAccountID         = "LP_ACCOUNT_ID"
	envConsumerKey       = "LP_CONSUMER_KEY"
	envConsumerSecret    = "LP_CONSUMER_SECRET"
	envAccessToken       = "LP_ACCESS_TOKEN"
	envAccessTokenSecret = "LP_ACCESS_TOKEN_SECRET"
	envUsername          = "LP_USERNAME"
)

// ErrNotConfigured is returned when no profile is stored.
var ErrNotConfigured = errors.New("liveperson not configured - run 'lp auth login' first")

// Account is the JSON document stored per profile.
type Account struct {
	AccountID         string `json:"account_id"`
	Username          string `json:"username"`
	ConsumerKey       string `json:"consumer_key"`
	ConsumerSecret    string `json:"consumer_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
	DiscoveryURL      string `json:"discovery_url,omitempty"`
}

// Bundle converts the stored account into a validated credential bundle.
func (a Account) Bundle() (credentials.Bundle, error) {
	return credentials.New(a.AccountID, a.ConsumerKey, a.ConsumerSecret, a.AccessToken, a.AccessTokenSecret, a.Username)
}

func profileKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultProfile
	}
	return profilePrefix + name
}

func loadProfileIndex(ring keyring.Keyring) ([]string, error) {
	item, err := ring.Get(profileIndexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(item.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func saveProfileIndex(ring keyring.Keyring, profiles []string) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return ring.Set(keyring.Item{Key: profileIndexKey, Data: data})
}

func normalizeProfiles(profiles []string) []string {
	seen := make(map[string]struct{}, len(profiles))
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// LoadAccount returns credentials from the environment when LP_ACCOUNT_ID is
// set, otherwise from the profile named by LP_PROFILE or the current profile.
func LoadAccount() (Account, error) {
	if acct, ok, err := accountFromEnv(); ok || err != nil {
		return acct, err
	}
	if profile := envString(envProfile); profile != "" {
		return LoadProfile(profile)
	}
	current, err := CurrentProfile()
	if err != nil {
		return Account{}, err
	}
	return LoadProfile(current)
}

func accountFromEnv() (Account, bool, error) {
	accountID := envString(envAccountID)
	if accountID == "" {
		return Account{}, false, nil
	}
	acct := Account{
		AccountID:         accountID,
		ConsumerKey:       envString(envConsumerKey),
		ConsumerSecret:    envString(envConsumerSecret),
		AccessToken:       envString(envAccessToken),
		AccessTokenSecret: envString(envAccessTokenSecret),
		Username:          envString(envUsername),
	}
	if _, err := acct.Bundle(); err != nil {
		return Account{}, true, fmt.Errorf("environment variables %s, %s, %s, %s, %s and %s must all be set: %w",
			envAccountID, envConsumerKey, envConsumerSecret, envAccessToken, envAccessTokenSecret, envUsername, err)
	}
	return acct, true, nil
}

// SaveProfile stores the account under a named profile and makes it current.
func SaveProfile(profile string, account Account) error {
	if profile == "" {
		profile = defaultProfile
	}
	if _, err := account.Bundle(); err != nil {
		return err
	}

	ring, err := open()
	if err != nil {
		return err
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: profileKey(profile), Data: data}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	if err := saveProfileIndex(ring, normalizeProfiles(append(profiles, profile))); err != nil {
		return err
	}
	return SetCurrentProfile(profile)
}

// LoadProfile retrieves credentials for a named profile.
func LoadProfile(profile string) (Account, error) {
	ring, err := open()
	if err != nil {
		return Account{}, err
	}

	item, err := ring.Get(profileKey(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Account{}, ErrNotConfigured
		}
		return Account{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return account, nil
}

// DeleteProfile removes a stored profile. When it was current, the first
// remaining profile becomes current.
func DeleteProfile(profile string) error {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := open()
	if err != nil {
		return err
	}
	if err := ring.Remove(profileKey(profile)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	var remaining []string
	for _, p := range profiles {
		if p != profile {
			remaining = append(remaining, p)
		}
	}
	if err := saveProfileIndex(ring, remaining); err != nil {
		return err
	}

	if current, err := CurrentProfile(); err == nil && current == profile {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		_ = SetCurrentProfile(next)
	}
	return nil
}

// ListProfiles returns the known profile names.
func ListProfiles() ([]string, error) {
	ring, err := open()
	if err != nil {
		return nil, err
	}
	return loadProfileIndex(ring)
}

// CurrentProfile returns the active profile name.
func CurrentProfile() (string, error) {
	ring, err := open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(currentProfileKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return defaultProfile, nil
		}
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

// SetCurrentProfile sets the active profile name.
func SetCurrentProfile(profile string) error {
	if profile == "" {
		profile = defaultProfile
	}
	ring, err := open()
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{Key: currentProfileKey, Data: []byte(profile)})
}

// HasAccount checks if credentials are available.
func HasAccount() bool {
	_, err := LoadAccount()
	return err == nil
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
