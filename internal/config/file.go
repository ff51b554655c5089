package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cognee/cognee-cli/pkg/cognee"
)

const (
	envConfigDir  = "COGNEE_CONFIG_DIR"
	envConfigFile = "COGNEE_CONFIG"

	// DefaultBaseURL is where a locally started Cognee server listens.
	DefaultBaseURL = "http://localhost:8000"
)

// Profile holds per-profile overrides from the config file. Nil fields fall
// back to the top-level values.
type Profile struct {
	BaseURL       *string `mapstructure:"base_url"`
	APIKey        *string `mapstructure:"api_key"`
	Timeout       *int    `mapstructure:"timeout"`
	RetryAttempts *int    `mapstructure:"retry_attempts"`
}

// File is the parsed config.yaml.
type File struct {
	BaseURL       string             `mapstructure:"base_url"`
	APIKey        string             `mapstructure:"api_key"`
	Timeout       int                `mapstructure:"timeout"`
	RetryAttempts int                `mapstructure:"retry_attempts"`
	Profile       string             `mapstructure:"profile"`
	Profiles      map[string]Profile `mapstructure:"profiles"`

	// Path is the file that was read, empty when none was found.
	Path string `mapstructure:"-"`
}

// Dir returns the CLI's configuration directory.
func Dir() string {
	if dir := firstNonBlankEnv(envConfigDir); dir != "" {
		return dir
	}
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, "cognee")
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".config", "cognee")
	}
	return filepath.Join(os.TempDir(), "cognee")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", cognee.DefaultTimeoutSeconds)
	v.SetDefault("retry_attempts", cognee.DefaultMaxRetryAttempts)
	v.SetDefault("profile", defaultProfile)
}

// LoadFile reads config.yaml. An explicit path (argument or COGNEE_CONFIG)
// must exist; otherwise a missing file just yields the defaults.
func LoadFile(path string) (*File, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = firstNonBlankEnv(envConfigFile)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	f.Path = v.ConfigFileUsed()
	return &f, nil
}

// profile returns the named section, or an empty one.
func (f *File) profile(name string) Profile {
	if f == nil || f.Profiles == nil {
		return Profile{}
	}
	return f.Profiles[name]
}

// LoadDotEnv loads .env from the working directory and then from Dir().
// Variables already present in the environment are never overwritten, so
// the first file to define a variable wins.
func LoadDotEnv() {
	for _, path := range []string{".env", filepath.Join(Dir(), ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}
