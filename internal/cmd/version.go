package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/pkg/cognee"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if isStructured(cmd) {
				_ = printJSON(cmd, map[string]string{
					"version": cognee.Version,
					"go":      runtime.Version(),
					"os":      runtime.GOOS,
					"arch":    runtime.GOARCH,
				})
				return
			}
			_, _ = fmt.Fprintf(stdout(cmd), "cognee-cli version %s\n", cognee.Version)
		},
	}
}
