package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shotchart/internal/codec"
	"shotchart/internal/service"
)

func playersCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "players",
		Short: "Manage the player directory",
	}

	c.AddCommand(
		playersImportCmd(opts),
		playersExportCmd(opts),
		playersSyncCmd(opts),
		playersSearchCmd(opts),
	)
	return c
}

func playersImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML or JSON roster into the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				n, err := a.players.ImportRosterFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d players from %s\n", n, args[0])
				return nil
			})
		},
	}
}

func playersExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the directory as a roster file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				if _, err := a.players.Bootstrap(cmd.Context(), ""); err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}

				n, err := a.players.ExportRoster(cmd.Context(), exp, w)
				if err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d players to %s\n", n, output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "roster format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func playersSyncCmd(opts *rootOptions) *cobra.Command {
	var (
		season string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the directory from the stats API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				if season == "" {
					season = a.cfg.Defaults.Season
				}
				n, err := a.players.SyncDirectory(cmd.Context(), season, !all)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d players for %s\n", n, season)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&season, "season", "s", "", "season to sync (default: configured default season)")
	cmd.Flags().BoolVar(&all, "all", false, "include players not on a roster that season")
	return cmd
}

func playersSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the player directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				if _, err := a.players.Bootstrap(cmd.Context(), ""); err != nil {
					return err
				}
				players, err := a.players.SearchPlayers(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(players) == 0 {
					fmt.Fprintln(out, "(no players found)")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tACTIVE")
				for _, p := range players {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.FullName, strconv.FormatBool(p.IsActive))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultSearchLimit, "maximum number of results")
	return cmd
}

func seasonsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List the seasons with shot data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				for _, s := range a.players.AvailableSeasons(cmd.Context()) {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}
}
