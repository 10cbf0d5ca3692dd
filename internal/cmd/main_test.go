package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/cwsops/liveperson-cli/internal/config"
)

func TestMain(m *testing.M) {
	// Keep a developer's LP_OUTPUT from leaking into assertions.
	_ = os.Setenv("LP_OUTPUT", "text")

	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}
