// Package config resolves the connection settings for the CLI from flags,
// environment, .env files, a YAML config file and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName    = "cognee-cli"
	defaultProfile = "default"
	apiKeyPrefix   = "api_key:"

	envKeyringBackend  = "COGNEE_KEYRING_BACKEND"
	envKeyringPassword = "COGNEE_KEYRING_PASSWORD"
	envCredentialsDir  = "COGNEE_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// ErrNoStoredKey is returned when the keyring holds no API key for a profile.
var ErrNoStoredKey = errors.New("no API key stored for profile")

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Auto mode still configures the file backend so keyring.Open can fall
	// through to it when no native backend is available.
	configureFileBackend(&cfg)

	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(firstNonBlankEnv(envKeyringBackend)) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

// Headless Linux has no secret service, so auto mode goes straight to the
// encrypted file backend there.
func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
}

func keyringFileDir() string {
	if base := firstNonBlankEnv(envCredentialsDir); base != "" {
		return filepath.Join(base, "keyring")
	}
	return filepath.Join(Dir(), "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func firstNonBlankEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func normalizeProfile(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultProfile
	}
	return name
}

func apiKeyItem(profile string) string {
	return apiKeyPrefix + normalizeProfile(profile)
}

// SaveAPIKey stores key for profile in the OS keyring.
func SaveAPIKey(profile, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key cannot be empty")
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if err := ring.Set(keyring.Item{
		Key:         apiKeyItem(profile),
		Data:        []byte(key),
		Label:       fmt.Sprintf("Cognee API key (%s)", normalizeProfile(profile)),
		Description: "API key used by cognee-cli",
	}); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return nil
}

// LoadAPIKey returns the key stored for profile, or ErrNoStoredKey.
func LoadAPIKey(profile string) (string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return "", fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(apiKeyItem(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("%w %q", ErrNoStoredKey, normalizeProfile(profile))
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return string(item.Data), nil
}

// DeleteAPIKey removes the key stored for profile.
func DeleteAPIKey(profile string) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	// Remove does not report missing items the same way on every backend.
	if _, err := ring.Get(apiKeyItem(profile)); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("%w %q", ErrNoStoredKey, normalizeProfile(profile))
		}
		return fmt.Errorf("failed to read API key: %w", err)
	}

	if err := ring.Remove(apiKeyItem(profile)); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w %q", ErrNoStoredKey, normalizeProfile(profile))
		}
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}

// StoredProfiles lists the profiles that have a key in the keyring, sorted.
func StoredProfiles() ([]string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keyring items: %w", err)
	}
	var profiles []string
	for _, k := range keys {
		if name, ok := strings.CutPrefix(k, apiKeyPrefix); ok {
			profiles = append(profiles, name)
		}
	}
	sort.Strings(profiles)
	return profiles, nil
}
