package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyling/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration (API keys masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		printConfig(cmd.OutOrStdout(), rt.cfg)
		return nil
	},
}

func printConfig(w io.Writer, cfg config.Config) {
	width := 0
	pairs := cfg.Redacted()
	for _, kv := range pairs {
		width = max(width, len(kv[0]))
	}
	for _, kv := range pairs {
		fmt.Fprintf(w, "%-*s  %s\n", width, kv[0], kv[1])
	}
}
