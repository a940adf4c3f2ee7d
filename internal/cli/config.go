package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shotchart/internal/config"
)

func configCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	c.AddCommand(configShowCmd(opts), configInitCmd())
	return c
}

func configShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				path = "(none, using defaults)"
			}
			fmt.Fprintf(out, "Config: %s\n", path)
			fmt.Fprintln(out, cfg.Summary())
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
