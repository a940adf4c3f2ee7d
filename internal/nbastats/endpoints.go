package nbastats

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"shotchart/internal/domain"
)

// Endpoint and result set names.
const (
	EndpointShotChart    = "shotchartdetail"
	EndpointPlayerInfo   = "commonplayerinfo"
	EndpointCareerStats  = "playercareerstats"
	EndpointAllPlayers   = "commonallplayers"
	setShotChart         = "Shot_Chart_Detail"
	setPlayerInfo        = "CommonPlayerInfo"
	setSeasonTotals      = "SeasonTotalsRegularSeason"
	setAllPlayers        = "CommonAllPlayers"
	leagueNBA            = "00"
	contextMeasureFGA    = "FGA"
)

// shotChartParams are the parameters shotchartdetail insists on, even when
// empty.
func shotChartParams(playerID int, season, seasonType string) url.Values {
	v := url.Values{}
	v.Set("PlayerID", strconv.Itoa(playerID))
	v.Set("Season", season)
	v.Set("SeasonType", seasonType)
	v.Set("TeamID", "0")
	v.Set("LeagueID", leagueNBA)
	v.Set("ContextMeasure", contextMeasureFGA)
	v.Set("PlayerPosition", "")
	v.Set("GameID", "")
	v.Set("Outcome", "")
	v.Set("Location", "")
	v.Set("Month", "0")
	v.Set("SeasonSegment", "")
	v.Set("DateFrom", "")
	v.Set("DateTo", "")
	v.Set("OpponentTeamID", "0")
	v.Set("VsConference", "")
	v.Set("VsDivision", "")
	v.Set("RookieYear", "")
	v.Set("GameSegment", "")
	v.Set("Period", "0")
	v.Set("LastNGames", "0")
	v.Set("AheadBehind", "")
	v.Set("ClutchTime", "")
	v.Set("ContextFilter", "")
	v.Set("PointDiff", "")
	return v
}

// ShotChart returns every field-goal attempt of a player in one season.
func (c *Client) ShotChart(ctx context.Context, playerID int, season, seasonType string) ([]domain.Shot, error) {
	resp, err := c.Get(ctx, EndpointShotChart, shotChartParams(playerID, season, seasonType))
	if err != nil {
		return nil, err
	}
	set, err := resp.Set(setShotChart)
	if err != nil {
		return nil, err
	}
	rows, err := set.Rows()
	if err != nil {
		return nil, err
	}

	shots := make([]domain.Shot, 0, len(rows))
	for _, r := range rows {
		shots = append(shots, domain.Shot{
			ID:            domain.ShotID(r.String("GAME_ID"), r.Int("GAME_EVENT_ID")),
			LocationX:     r.Int("LOC_X"),
			LocationY:     r.Int("LOC_Y"),
			ShotDistance:  r.Int("SHOT_DISTANCE"),
			ShotMade:      r.Bool("SHOT_MADE_FLAG"),
			ShotType:      r.String("SHOT_TYPE"),
			Period:        r.Int("PERIOD"),
			TimeRemaining: domain.Clock(r.Int("MINUTES_REMAINING"), r.Int("SECONDS_REMAINING")),
			ShotZone:      domain.ShotZone(r.String("SHOT_ZONE_BASIC")),
		})
	}
	return shots, nil
}

// PlayerInfo returns biographical and roster details. It reports
// domain.ErrPlayerNotFound when the set is empty.
func (c *Client) PlayerInfo(ctx context.Context, playerID int) (domain.Player, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("LeagueID", "")

	resp, err := c.Get(ctx, EndpointPlayerInfo, params)
	if err != nil {
		return domain.Player{}, err
	}
	set, err := resp.Set(setPlayerInfo)
	if err != nil {
		return domain.Player{}, err
	}
	rows, err := set.Rows()
	if err != nil {
		return domain.Player{}, err
	}
	if len(rows) == 0 {
		return domain.Player{}, domain.ErrPlayerNotFound
	}

	r := rows[0]
	p := domain.Player{
		ID:           r.Int("PERSON_ID"),
		FirstName:    r.String("FIRST_NAME"),
		LastName:     r.String("LAST_NAME"),
		FullName:     r.String("DISPLAY_FIRST_LAST"),
		TeamID:       r.Int("TEAM_ID"),
		TeamName:     teamName(r.String("TEAM_CITY"), r.String("TEAM_NAME")),
		Position:     r.String("POSITION"),
		JerseyNumber: r.String("JERSEY"),
		IsActive:     r.Bool("ROSTERSTATUS"),
	}
	if p.ID == 0 {
		p.ID = playerID
	}
	p.Normalize()
	return p, nil
}

// CareerTotals returns a player's regular-season totals, one row per season
// in the order the API lists them (oldest first).
func (c *Client) CareerTotals(ctx context.Context, playerID int) ([]domain.SeasonTotals, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("PerMode", "Totals")
	params.Set("LeagueID", leagueNBA)

	resp, err := c.Get(ctx, EndpointCareerStats, params)
	if err != nil {
		return nil, err
	}
	set, err := resp.Set(setSeasonTotals)
	if err != nil {
		return nil, err
	}
	rows, err := set.Rows()
	if err != nil {
		return nil, err
	}

	totals := make([]domain.SeasonTotals, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, domain.SeasonTotals{
			Season: r.String("SEASON_ID"),
			FGM:    r.Int("FGM"),
			FGA:    r.Int("FGA"),
			FGPct:  r.Float("FG_PCT"),
			FG3M:   r.Int("FG3M"),
			FG3A:   r.Int("FG3A"),
			FG3Pct: r.Float("FG3_PCT"),
		})
	}
	return totals, nil
}

// AllPlayers lists players known for season. With currentOnly, only players
// on a roster that season are returned.
func (c *Client) AllPlayers(ctx context.Context, season string, currentOnly bool) ([]domain.Player, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueNBA)
	params.Set("Season", season)
	if currentOnly {
		params.Set("IsOnlyCurrentSeason", "1")
	} else {
		params.Set("IsOnlyCurrentSeason", "0")
	}

	resp, err := c.Get(ctx, EndpointAllPlayers, params)
	if err != nil {
		return nil, err
	}
	set, err := resp.Set(setAllPlayers)
	if err != nil {
		return nil, err
	}
	rows, err := set.Rows()
	if err != nil {
		return nil, err
	}

	players := make([]domain.Player, 0, len(rows))
	for _, r := range rows {
		first, last := splitLastFirst(r.String("DISPLAY_LAST_COMMA_FIRST"))
		p := domain.Player{
			ID:        r.Int("PERSON_ID"),
			FirstName: first,
			LastName:  last,
			FullName:  r.String("DISPLAY_FIRST_LAST"),
			TeamID:    r.Int("TEAM_ID"),
			TeamName:  teamName(r.String("TEAM_CITY"), r.String("TEAM_NAME")),
			IsActive:  r.Bool("ROSTERSTATUS"),
		}
		p.Normalize()
		if p.Valid() {
			players = append(players, p)
		}
	}
	return players, nil
}

func teamName(city, name string) string {
	city, name = strings.TrimSpace(city), strings.TrimSpace(name)
	if city == "" || name == "" {
		return city + name
	}
	return city + " " + name
}

// splitLastFirst splits "James, LeBron" into first and last name. Single-word
// names come back as the last name.
func splitLastFirst(s string) (first, last string) {
	last, first, ok := strings.Cut(s, ",")
	if !ok {
		return "", strings.TrimSpace(s)
	}
	return strings.TrimSpace(first), strings.TrimSpace(last)
}
