package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/compat"
)

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			health, err := client.Health().Check(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return printKeyValues(cmd, health)
		}),
	}
	cmd.AddCommand(newHealthDetailedCmd())
	return cmd
}

func newHealthDetailedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detailed",
		Short: "Show per-component health and check server compatibility",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			health, err := client.Health().Detailed(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("detailed health check failed: %w", err)
			}

			result := compat.Check(health, compat.MinimumServerVersion)
			if warning := result.Warning(); warning != "" {
				_, _ = fmt.Fprintln(errWriter(cmd), "Warning:", warning)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"health": health, "compatibility": result})
			}
			if err := printKeyValues(cmd, health); err != nil {
				return err
			}
			if result.Known {
				_, _ = fmt.Fprintf(stdout(cmd), "\nServer %s (minimum %s)\n", result.ServerVersion, result.MinimumVersion)
			}
			return nil
		}),
	}
}
