// Package cli implements the shotchart command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X shotchart/internal/cli.Version=..."
var Version = "dev"

type rootOptions struct {
	configPath string
	debug      bool
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "shotchart",
		Short:        "NBA shot chart visualizer",
		Long:         "Serves the shot chart web app and manages its player directory and cache.",
		SilenceUsage: true,
		Version:      Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: search standard locations)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging and error details")

	cmd.AddCommand(
		serveCmd(opts),
		playersCmd(opts),
		seasonsCmd(opts),
		cacheCmd(opts),
		configCmd(opts),
	)
	return cmd
}
