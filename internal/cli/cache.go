package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shotchart/internal/domain"
)

func cacheCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response cache",
	}

	c.AddCommand(cacheWarmCmd(opts), cacheClearCmd(opts))
	return c
}

func cacheWarmCmd(opts *rootOptions) *cobra.Command {
	var seasons []string

	cmd := &cobra.Command{
		Use:   "warm [player-id...]",
		Short: "Prefetch player info, shots and stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePlayerIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				if len(ids) == 0 {
					ids = a.cfg.Cache.WarmPlayers
				}
				if len(ids) == 0 {
					return fmt.Errorf("no players given and cache.warm_players is empty")
				}
				if len(seasons) == 0 {
					seasons = []string{a.cfg.Defaults.Season}
				}
				if _, err := a.players.Bootstrap(cmd.Context(), a.cfg.Players.SeedPath); err != nil {
					return err
				}

				res, err := warmJob(a, ids, seasons).Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Warmed %d players across %d seasons\n", res.Affected, len(seasons))
				for _, e := range res.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", e)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&seasons, "season", "s", nil, "seasons to warm (default: configured default season)")
	return cmd
}

func cacheClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <player-id>",
		Short: "Drop cached entries for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePlayerIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				n, err := a.players.ClearPlayerCache(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entries for player %d\n", n, ids[0])
				return nil
			})
		},
	}
}

func parsePlayerIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q", arg)
		}
		if err := domain.ValidatePlayerID(id); err != nil {
			return nil, fmt.Errorf("player id %d: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
