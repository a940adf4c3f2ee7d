package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"shotchart/internal/cache"
	"shotchart/internal/domain"
)

// PlayerStats is a season's shooting summary and the season it came from.
// Season differs from the requested one when the player has no row for it
// and the most recent season was used instead.
type PlayerStats struct {
	Season string `json:"season"`
	domain.ShotStats
}

// ValidateSearch checks search parameters and returns the effective limit.
// A zero limit means the default.
func ValidateSearch(query string, limit int) (string, int, error) {
	query = strings.TrimSpace(query)
	switch n := utf8.RuneCountInString(query); {
	case n == 0:
		return "", 0, &domain.ValidationError{Code: domain.CodeMissingQuery, Message: `Search query parameter "q" is required`}
	case n < minQueryLength:
		return "", 0, &domain.ValidationError{Code: domain.CodeQueryTooShort, Message: "Search query must be at least 2 characters long"}
	case n > maxQueryLength:
		return "", 0, &domain.ValidationError{Code: domain.CodeQueryTooLong, Message: "Search query must be less than 100 characters"}
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	if limit < 1 || limit > MaxSearchLimit {
		return "", 0, &domain.ValidationError{Code: domain.CodeInvalidLimit, Message: "Limit must be between 1 and 50"}
	}
	return query, limit, nil
}

// SearchPlayers finds directory players whose name contains query
func (s *PlayerService) SearchPlayers(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	query, limit, err := ValidateSearch(query, limit)
	if err != nil {
		return nil, err
	}

	players, err := cache.Remember(ctx, s.cache, cache.KindSearch, []any{strings.ToLower(query), limit},
		func(ctx context.Context) ([]domain.Player, error) {
			return s.dir.SearchPlayers(ctx, query, limit)
		})
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	s.logger.DebugContext(ctx, "player search", "query", query, "results", len(players))
	return players, nil
}

// GetPlayerInfo returns the directory entry for id, enriched with team,
// position and jersey from upstream when available.
func (s *PlayerService) GetPlayerInfo(ctx context.Context, id int) (domain.Player, error) {
	if err := domain.ValidatePlayerID(id); err != nil {
		return domain.Player{}, err
	}

	return cache.Remember(ctx, s.cache, cache.KindInfo, []any{id},
		func(ctx context.Context) (domain.Player, error) {
			p, err := s.dir.GetPlayer(ctx, id)
			if err != nil {
				return domain.Player{}, err
			}
			if s.stats == nil {
				return p, nil
			}

			info, err := s.stats.PlayerInfo(ctx, id)
			if err != nil {
				s.logger.WarnContext(ctx, "player info enrichment failed", "player_id", id, "error", err)
				return p, nil
			}
			return enrich(p, info), nil
		})
}

// enrich copies upstream bio fields onto a directory entry
func enrich(p, info domain.Player) domain.Player {
	if info.TeamID != 0 {
		p.TeamID = info.TeamID
	}
	if info.TeamName != "" {
		p.TeamName = info.TeamName
	}
	if info.Position != "" {
		p.Position = info.Position
	}
	if info.JerseyNumber != "" {
		p.JerseyNumber = info.JerseyNumber
	}
	return p
}

// GetPlayerShots returns every field-goal attempt of a player in a season.
// An empty season type means the regular season.
func (s *PlayerService) GetPlayerShots(ctx context.Context, id int, season, seasonType string) ([]domain.Shot, error) {
	if seasonType == "" {
		seasonType = domain.SeasonTypeRegular
	}
	for _, err := range []error{
		domain.ValidatePlayerID(id),
		domain.ValidateSeason(season),
		domain.ValidateSeasonType(seasonType),
	} {
		if err != nil {
			return nil, err
		}
	}
	if s.stats == nil {
		return nil, errors.New("no stats source configured")
	}

	shots, err := cache.Remember(ctx, s.cache, cache.KindShots, []any{id, season, seasonType},
		func(ctx context.Context) ([]domain.Shot, error) {
			return s.stats.ShotChart(ctx, id, season, seasonType)
		})
	if err != nil {
		return nil, fmt.Errorf("shots for player %d in %s: %w", id, season, err)
	}

	s.logger.DebugContext(ctx, "player shots", "player_id", id, "season", season, "shots", len(shots))
	return shots, nil
}

// GetPlayerStats returns the season's shooting totals. When the player has
// no row for season the most recent season is used. Upstream failures yield
// zero stats for the requested season.
func (s *PlayerService) GetPlayerStats(ctx context.Context, id int, season string) (PlayerStats, error) {
	if err := domain.ValidatePlayerID(id); err != nil {
		return PlayerStats{}, err
	}
	if err := domain.ValidateSeason(season); err != nil {
		return PlayerStats{}, err
	}
	if s.stats == nil {
		return PlayerStats{Season: season}, nil
	}

	stats, err := cache.Remember(ctx, s.cache, cache.KindStats, []any{id, season},
		func(ctx context.Context) (PlayerStats, error) {
			return s.loadStats(ctx, id, season)
		})
	if err != nil {
		s.logger.WarnContext(ctx, "player stats unavailable", "player_id", id, "season", season, "error", err)
		return PlayerStats{Season: season}, nil
	}
	return stats, nil
}

func (s *PlayerService) loadStats(ctx context.Context, id int, season string) (PlayerStats, error) {
	rows, err := s.stats.CareerTotals(ctx, id)
	if err != nil {
		return PlayerStats{}, err
	}
	if len(rows) == 0 {
		return PlayerStats{Season: season}, nil
	}

	row := rows[len(rows)-1]
	for _, r := range rows {
		if r.Season == season {
			row = r
			break
		}
	}
	out := PlayerStats{Season: row.Season, ShotStats: row.Stats()}

	// Career totals carry no distances; derive the average from the shots.
	shots, err := s.GetPlayerShots(ctx, id, row.Season, domain.SeasonTypeRegular)
	if err != nil {
		s.logger.WarnContext(ctx, "average shot distance unavailable", "player_id", id, "season", row.Season, "error", err)
		return out, nil
	}
	out.AverageShotDistance = domain.Summarize(shots).AverageShotDistance
	return out, nil
}

// ResolvePlayer builds the fully resolved Player handed to selection: the
// directory entry, its upstream bio and the season's shooting totals.
func (s *PlayerService) ResolvePlayer(ctx context.Context, id int, season string) (domain.Player, error) {
	p, err := s.GetPlayerInfo(ctx, id)
	if err != nil {
		return domain.Player{}, err
	}
	if season == "" {
		season = domain.DefaultSeason
	}
	stats, err := s.GetPlayerStats(ctx, id, season)
	if err != nil {
		return domain.Player{}, err
	}
	p.Stats = stats.ShotStats
	p.StatsSeason = stats.Season
	return p, nil
}

// AvailableSeasons lists seasons with shot data, newest first
func (s *PlayerService) AvailableSeasons(ctx context.Context) []string {
	seasons, _ := cache.Remember(ctx, s.cache, cache.KindSeasons, nil,
		func(context.Context) ([]string, error) {
			return domain.AvailableSeasons(s.now()), nil
		})
	return seasons
}

// ClearPlayerCache drops every cached info, shots and stats entry of a
// player and returns how many were removed.
func (s *PlayerService) ClearPlayerCache(ctx context.Context, id int) (int, error) {
	if err := domain.ValidatePlayerID(id); err != nil {
		return 0, err
	}
	if s.cache == nil {
		return 0, nil
	}

	keys := []string{cache.Key(cache.KindInfo, id)}
	for _, season := range domain.AvailableSeasons(s.now()) {
		keys = append(keys,
			cache.Key(cache.KindStats, id, season),
			cache.Key(cache.KindShots, id, season, domain.SeasonTypeRegular),
			cache.Key(cache.KindShots, id, season, domain.SeasonTypePlayoffs),
		)
	}

	n, err := s.cache.Delete(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("clear cache for player %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "player cache cleared", "player_id", id, "entries", n)
	return n, nil
}

// WarmResult counts what WarmCache loaded
type WarmResult struct {
	Players int `json:"players"`
	Shots   int `json:"shots"`
	Stats   int `json:"stats"`
	Errors  int `json:"errors"`
}

// WarmCache prefetches info, shots and stats for each player and season
func (s *PlayerService) WarmCache(ctx context.Context, ids []int, seasons []string) WarmResult {
	var res WarmResult
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.GetPlayerInfo(ctx, id); err != nil {
			res.Errors++
			continue
		}
		res.Players++

		for _, season := range seasons {
			if _, err := s.GetPlayerShots(ctx, id, season, domain.SeasonTypeRegular); err != nil {
				res.Errors++
			} else {
				res.Shots++
			}
			if _, err := s.GetPlayerStats(ctx, id, season); err != nil {
				res.Errors++
			} else {
				res.Stats++
			}
		}
	}

	s.logger.InfoContext(ctx, "cache warmed",
		"players", res.Players, "shots", res.Shots, "stats", res.Stats, "errors", res.Errors)
	return res
}
