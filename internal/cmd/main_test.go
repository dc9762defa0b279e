package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/rapidpro/rapidpro-cli/internal/config"
)

func TestMain(m *testing.M) {
	// Keep shell settings from leaking into tests.
	_ = os.Setenv("RAPIDPRO_OUTPUT", "text")

	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}
