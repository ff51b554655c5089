package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cognee/cognee-cli/pkg/cognee"
)

const (
	envBaseURL       = "COGNEE_BASE_URL"
	envAPIKey        = "COGNEE_API_KEY"
	envTimeout       = "COGNEE_TIMEOUT"
	envRetryAttempts = "COGNEE_RETRY_ATTEMPTS"
	envProfile       = "COGNEE_PROFILE"
)

// Overrides are values given on the command line. Nil means "not set".
type Overrides struct {
	BaseURL          *string
	APIKey           *string
	TimeoutSeconds   *int
	MaxRetryAttempts *int
	Profile          string
	ConfigFile       string
}

// Resolved is a validated client configuration plus where it came from.
type Resolved struct {
	Config    cognee.Config
	Profile   string
	File      string
	KeySource string
}

// Resolve builds the client configuration. Each setting is taken from the
// first of: flag, COGNEE_* environment (including .env files), the profile
// section of config.yaml, the top level of config.yaml, built-in defaults.
// The API key additionally falls back to the keyring entry for the profile.
// Validation is left to cognee.NewConfig.
func Resolve(o Overrides) (*Resolved, error) {
	file, err := LoadFile(o.ConfigFile)
	if err != nil {
		return nil, err
	}

	profileName := activeProfile(o, file)
	section := file.profile(profileName)

	baseURL := stringSetting(o.BaseURL, envBaseURL, section.BaseURL, file.BaseURL)

	timeout, err := intSetting(o.TimeoutSeconds, envTimeout, section.Timeout, file.Timeout)
	if err != nil {
		return nil, err
	}
	retries, err := intSetting(o.MaxRetryAttempts, envRetryAttempts, section.RetryAttempts, file.RetryAttempts)
	if err != nil {
		return nil, err
	}

	apiKey, source := resolveAPIKey(o.APIKey, profileName, section, file)

	cfg, err := cognee.NewConfig(baseURL, apiKey, timeout, retries)
	if err != nil {
		return nil, err
	}
	return &Resolved{
		Config:    cfg,
		Profile:   profileName,
		File:      file.Path,
		KeySource: source,
	}, nil
}

// ActiveProfile returns the profile Resolve would use for o without
// requiring the rest of the configuration to be valid.
func ActiveProfile(o Overrides) (string, error) {
	file, err := LoadFile(o.ConfigFile)
	if err != nil {
		return "", err
	}
	return activeProfile(o, file), nil
}

func activeProfile(o Overrides, file *File) string {
	return normalizeProfile(firstNonEmpty(o.Profile, firstNonBlankEnv(envProfile), file.Profile))
}

func resolveAPIKey(flag *string, profile string, section Profile, file *File) (string, string) {
	if flag != nil {
		return *flag, "flag"
	}
	if v := firstNonBlankEnv(envAPIKey); v != "" {
		return v, "env"
	}
	if section.APIKey != nil && strings.TrimSpace(*section.APIKey) != "" {
		return *section.APIKey, "config file"
	}
	if profile == defaultProfile && strings.TrimSpace(file.APIKey) != "" {
		return file.APIKey, "config file"
	}

	key, err := LoadAPIKey(profile)
	if err != nil {
		if !errors.Is(err, ErrNoStoredKey) {
			slog.Debug("keyring lookup failed", "profile", profile, "error", err)
		}
		return "", ""
	}
	return key, "keyring"
}

func stringSetting(flag *string, env string, section *string, fileValue string) string {
	if flag != nil {
		return *flag
	}
	if v := firstNonBlankEnv(env); v != "" {
		return v
	}
	if section != nil {
		return *section
	}
	return fileValue
}

func intSetting(flag *int, env string, section *int, fileValue int) (int, error) {
	if flag != nil {
		return *flag, nil
	}
	if v := firstNonBlankEnv(env); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", env, v)
		}
		return n, nil
	}
	if section != nil {
		return *section, nil
	}
	return fileValue, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
