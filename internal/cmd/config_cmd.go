package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/config"
	"github.com/cognee/cognee-cli/internal/outfmt"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigProfilesCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings (the API key is redacted)",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			res, err := newClientFactory().resolve()
			if err != nil {
				return err
			}
			cfg := res.Config
			view := map[string]any{
				"base_url":           cfg.BaseURL(),
				"api_key":            redactedKey(cfg.APIKey()),
				"api_key_source":     res.KeySource,
				"timeout_seconds":    cfg.TimeoutSeconds(),
				"max_retry_attempts": cfg.MaxRetryAttempts(),
				"profile":            res.Profile,
				"config_file":        res.File,
			}
			if isStructured(cmd) {
				return printJSON(cmd, view)
			}

			f := outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd))
			f.Row("Base URL:", cfg.BaseURL())
			f.Row("API key:", fmt.Sprintf("%s (%s)", redactedKey(cfg.APIKey()), orDash(res.KeySource)))
			f.Row("Timeout:", fmt.Sprintf("%ds", cfg.TimeoutSeconds()))
			f.Row("Retries:", fmt.Sprintf("%d", cfg.MaxRetryAttempts()))
			f.Row("Profile:", res.Profile)
			f.Row("Config file:", orDash(res.File))
			return f.EndTable()
		}),
	}
}

func newConfigProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List profiles with an API key in the keyring",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.StoredProfiles()
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				if profiles == nil {
					profiles = []string{}
				}
				return printJSON(cmd, profiles)
			}
			if len(profiles) == 0 {
				outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd)).Empty("No stored API keys")
				return nil
			}
			for _, p := range profiles {
				_, _ = fmt.Fprintln(stdout(cmd), p)
			}
			return nil
		}),
	}
}

// redactedKey keeps the first four characters of keys longer than eight.
func redactedKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "****"
	}
}
