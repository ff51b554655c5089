package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/config"
	"github.com/cognee/cognee-cli/internal/debug"
	"github.com/cognee/cognee-cli/internal/dryrun"
	"github.com/cognee/cognee-cli/internal/filter"
	"github.com/cognee/cognee-cli/internal/iocontext"
	"github.com/cognee/cognee-cli/internal/outfmt"
)

type rootFlags struct {
	BaseURL    string
	APIKey     string
	Timeout    int
	Retries    int
	Profile    string
	ConfigFile string
	Output     string
	JQ         string
	Compact    bool
	Debug      bool
	DryRun     bool
	Quiet      bool

	BaseURLSet bool
	APIKeySet  bool
	TimeoutSet bool
	RetriesSet bool
}

// flags is reset at the start of every Execute call. Tests run many
// commands in one process and rely on that reset for isolation.
var flags rootFlags

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// .env files are loaded before the flag defaults so COGNEE_OUTPUT from a
	// .env file is honored.
	config.LoadDotEnv()

	flags = rootFlags{
		Output: envOr("COGNEE_OUTPUT", "text"),
	}

	root := &cobra.Command{
		Use:           "cognee",
		Short:         "CLI for the Cognee knowledge API",
		Long:          "Manage datasets, run searches and administer users, roles and tenants on a Cognee server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.JQ != "" && !flagOrAliasChanged(cmd, "output") {
				flags.Output = "json"
			}
			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			if flags.JQ != "" && mode == outfmt.Text {
				return fmt.Errorf("--jq requires --output json, jsonl or yaml")
			}
			if err := filter.Validate(flags.JQ); err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			ctx = outfmt.WithQuery(ctx, flags.JQ)

			ioStreams := iocontext.GetIO(ctx)
			if flags.Quiet {
				ioStreams = ioStreams.Quiet()
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLogger(ioStreams.ErrOut, flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			flags.BaseURLSet = flagOrAliasChanged(cmd, "base-url")
			flags.APIKeySet = flagOrAliasChanged(cmd, "api-key")
			flags.TimeoutSet = flagOrAliasChanged(cmd, "timeout")
			flags.RetriesSet = flagOrAliasChanged(cmd, "retries")

			cmd.SetContext(ctx)
			return nil
		},
	}

	streams := iocontext.GetIO(ctx)
	root.SetContext(ctx)
	root.SetArgs(args)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.BaseURL, "base-url", "", "Cognee server URL (env COGNEE_BASE_URL)")
	pf.StringVar(&flags.APIKey, "api-key", "", "API key (env COGNEE_API_KEY; prefer 'auth save-key')")
	pf.IntVar(&flags.Timeout, "timeout", 0, "Per-attempt timeout in seconds (env COGNEE_TIMEOUT)")
	pf.IntVar(&flags.Retries, "retries", 0, "Retries for 429/5xx/network failures (env COGNEE_RETRY_ATTEMPTS)")
	pf.StringVar(&flags.Profile, "profile", "", "Config profile (env COGNEE_PROFILE)")
	pf.StringVar(&flags.ConfigFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/cognee/config.yaml; env COGNEE_CONFIG)")
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|yaml (env COGNEE_OUTPUT)")
	pf.StringVar(&flags.JQ, "jq", "", "jq expression applied to structured output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Log every request attempt to stderr")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")

	flagAlias(pf, "base-url", "url")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "output", "out")
	flagAlias(pf, "retries", "retry-attempts")

	root.AddCommand(newDatasetsCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newAuthCmd())
	root.AddCommand(newPermissionsCmd())
	root.AddCommand(newHealthCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		return err
	}
	return nil
}

// errWriter returns the diagnostic stream for cmd, honoring --quiet.
func errWriter(cmd *cobra.Command) io.Writer {
	return iocontext.GetIO(cmd.Context()).ErrOut
}
