package cmd

import (
	"log/slog"

	"github.com/cognee/cognee-cli/internal/config"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

// extraClientOptions are appended to every client the CLI builds. Tests use
// it to inject transports and observers.
var extraClientOptions []cognee.Option

type clientFactory struct {
	overrides config.Overrides
}

func newClientFactory() *clientFactory {
	o := config.Overrides{
		Profile:    flags.Profile,
		ConfigFile: flags.ConfigFile,
	}
	if flags.BaseURLSet {
		o.BaseURL = &flags.BaseURL
	}
	if flags.APIKeySet {
		o.APIKey = &flags.APIKey
	}
	if flags.TimeoutSet {
		o.TimeoutSeconds = &flags.Timeout
	}
	if flags.RetriesSet {
		o.MaxRetryAttempts = &flags.Retries
	}
	return &clientFactory{overrides: o}
}

func (f *clientFactory) resolve() (*config.Resolved, error) {
	return config.Resolve(f.overrides)
}

func (f *clientFactory) client() (*cognee.Client, error) {
	res, err := f.resolve()
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved configuration", "config", res.Config.String(), "profile", res.Profile, "key_source", res.KeySource)

	opts := append([]cognee.Option{cognee.WithLogger(slog.Default())}, extraClientOptions...)
	return cognee.NewClient(res.Config, opts...)
}

// getClient creates an API client from flags, environment and stored settings.
func getClient() (*cognee.Client, error) {
	return newClientFactory().client()
}
