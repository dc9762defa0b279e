package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockKeyring(t *testing.T) *keyring.ArrayKeyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
	return ring
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHost, EnvToken, EnvAPIVersion, EnvProfile} {
		t.Setenv(k, "")
	}
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, defaultKey, profileKey(""))
	assert.Equal(t, defaultKey, profileKey("default"))
	assert.Equal(t, "profile:staging", profileKey("staging"))
}

func TestNormalizeProfiles(t *testing.T) {
	got := normalizeProfiles([]string{" default ", "work", "", "default", "  ", "work"})
	assert.Equal(t, []string{"default", "work"}, got)
	assert.Nil(t, normalizeProfiles(nil))
}

func TestSaveAndLoadProfile(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	require.NoError(t, SaveProfile("staging", Account{Host: "staging.rapidpro.io", Token: "abc"}))
	require.NoError(t, SaveProfile("", Account{Host: "app.rapidpro.io", Token: "xyz", APIVersion: 1}))

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "default", current)

	account, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, Account{Host: "app.rapidpro.io", Token: "xyz", APIVersion: 1}, account)

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"staging", "default"}, profiles)

	t.Setenv(EnvProfile, "staging")
	account, err = LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "staging.rapidpro.io", account.Host)
}

func TestLoadAccount_NotConfigured(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	_, err := LoadAccount()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadAccount_KeyringOpenFails(t *testing.T) {
	clearEnv(t)
	boom := errors.New("no keyring")
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) { return nil, boom }))

	_, err := LoadAccount()
	assert.ErrorIs(t, err, boom)
}

func TestLoadAccount_Env(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	t.Setenv(EnvHost, "https://rapidpro.example.com/api/v2/")
	_, err := LoadAccount()
	assert.Error(t, err)

	t.Setenv(EnvToken, "secret")
	account, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "https://rapidpro.example.com/api/v2", account.Host)
	assert.Zero(t, account.APIVersion)

	t.Setenv(EnvAPIVersion, "3")
	_, err = LoadAccount()
	assert.Error(t, err)

	t.Setenv(EnvAPIVersion, "1")
	account, err = LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, 1, account.APIVersion)
}

func TestDeleteProfile_SwitchesCurrent(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	require.NoError(t, SaveProfile("one", Account{Host: "a", Token: "1"}))
	require.NoError(t, SaveProfile("two", Account{Host: "b", Token: "2"}))
	require.NoError(t, DeleteProfile("two"))

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "one", current)

	_, err = LoadProfile("two")
	assert.ErrorIs(t, err, ErrNotConfigured)

	require.NoError(t, DeleteProfile("missing"))
}

func TestShouldForceFileBackend(t *testing.T) {
	assert.True(t, shouldForceFileBackend("darwin", keyringBackendFile, ""))
	assert.True(t, shouldForceFileBackend("linux", keyringBackendAuto, ""))
	assert.False(t, shouldForceFileBackend("linux", keyringBackendAuto, "unix:path=/run/bus"))
	assert.False(t, shouldForceFileBackend("linux", keyringBackendSystem, ""))
}

func TestKeyringFileDir(t *testing.T) {
	t.Setenv(envCredentialsDir, "/tmp/creds")
	assert.Equal(t, filepath.Join("/tmp/creds", "keyring"), keyringFileDir())

	t.Setenv(envCredentialsDir, "")
	orig := userConfigDir
	userConfigDir = func() (string, error) { return "/home/u/.config", nil }
	t.Cleanup(func() { userConfigDir = orig })
	assert.Equal(t, filepath.Join("/home/u/.config", serviceName, "keyring"), keyringFileDir())
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(envKeyringPassword, "pw")
	got, err := keyringFilePassword("prompt")
	require.NoError(t, err)
	assert.Equal(t, "pw", got)

	t.Setenv(envKeyringPassword, "")
	orig := stdinHasTTY
	stdinHasTTY = func() bool { return false }
	t.Cleanup(func() { stdinHasTTY = orig })
	_, err = keyringFilePassword("prompt")
	assert.ErrorContains(t, err, envKeyringPassword)
}

func TestSettings_DefaultsAndMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "text", s.Output())
	assert.Equal(t, 30*time.Second, s.Timeout())
	assert.Equal(t, "file", s.CacheBackend())
	assert.Equal(t, 5*time.Minute, s.CacheTTL())
	assert.Equal(t, "rapidpro.export", s.NATSSubject())
	assert.False(t, s.Retry())
}

func TestSettings_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	s, err := LoadSettings(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyOutput, "json"))
	require.NoError(t, s.Set(KeyCacheBack, "redis"))
	require.NoError(t, s.Set(KeyCacheTTL, "10m"))
	require.NoError(t, s.Set(KeyTLSInsecure, "true"))
	require.NoError(t, s.Set(KeyTLSCABundle, "/etc/ssl/clinic.pem"))

	assert.ErrorIs(t, s.Set("nope", "x"), ErrUnknownSetting)
	assert.Error(t, s.Set(KeyTimeout, "soon"))
	assert.Error(t, s.Set(KeyCacheBack, "memcached"))
	assert.Error(t, s.Set(KeyTLSInsecure, "maybe"))

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "json", reloaded.Output())
	assert.Equal(t, "redis", reloaded.CacheBackend())
	assert.Equal(t, 10*time.Minute, reloaded.CacheTTL())
	assert.True(t, reloaded.TLSInsecure())
	assert.Equal(t, "/etc/ssl/clinic.pem", reloaded.TLSCABundle())
}

func TestSettings_EnvOverrides(t *testing.T) {
	t.Setenv("RAPIDPRO_CACHE_BACKEND", "none")
	t.Setenv("RAPIDPRO_OUTPUT", "yaml")

	s, err := LoadSettings(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "none", s.CacheBackend())
	assert.Equal(t, "yaml", s.Output())
}

func TestSettings_All(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, len(knownKeys))
	assert.Equal(t, KeyCacheBack, all[0].Key)
	assert.Equal(t, "file", all[0].Value)
}

func TestSettings_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unterminated"), 0o644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}
