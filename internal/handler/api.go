package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shotchart/internal/domain"
	"shotchart/internal/session"
)

// Test confirms the API is reachable
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":    "success",
		"message":   "NBA Shot Chart API is working",
		"timestamp": h.now().Unix(),
	}, http.StatusOK)
}

// SearchPlayers handles GET /api/players/search?q=&limit=
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n == 0 {
			h.writeError(w, http.StatusBadRequest, domain.CodeInvalidLimit, "Limit must be between 1 and 50", nil)
			return
		}
		limit = n
	}

	players, err := h.players.SearchPlayers(r.Context(), query, limit)
	if err != nil {
		h.writeServiceError(w, r, err, "SEARCH_ERROR", "Failed to search players")
		return
	}

	h.writeJSON(w, map[string]any{
		"data":  players,
		"query": query,
		"count": len(players),
	}, http.StatusOK)
}

// GetPlayer handles GET /api/players/{id}
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeServiceError(w, r, err, "PLAYER_ERROR", "Failed to get player information")
		return
	}

	player, err := h.players.GetPlayerInfo(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "PLAYER_ERROR", "Failed to get player information")
		return
	}

	h.writeJSON(w, map[string]any{"data": player}, http.StatusOK)
}

// GetPlayerShots handles GET /api/players/{id}/shots?season=&season_type=
func (h *Handler) GetPlayerShots(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeServiceError(w, r, err, "SHOTS_ERROR", "Failed to get shot chart data")
		return
	}

	season := h.seasonParam(r)
	seasonType := r.URL.Query().Get("season_type")
	if seasonType == "" {
		seasonType = domain.SeasonTypeRegular
	}

	shots, err := h.players.GetPlayerShots(r.Context(), id, season, seasonType)
	if err != nil {
		h.writeServiceError(w, r, err, "SHOTS_ERROR", "Failed to get shot chart data")
		return
	}

	h.writeJSON(w, map[string]any{
		"data":        shots,
		"player_id":   id,
		"season":      season,
		"season_type": seasonType,
		"count":       len(shots),
	}, http.StatusOK)
}

// GetPlayerStats handles GET /api/players/{id}/stats?season=
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeServiceError(w, r, err, "STATS_ERROR", "Failed to get player statistics")
		return
	}

	season := h.seasonParam(r)
	stats, err := h.players.GetPlayerStats(r.Context(), id, season)
	if err != nil {
		h.writeServiceError(w, r, err, "STATS_ERROR", "Failed to get player statistics")
		return
	}

	h.writeJSON(w, map[string]any{
		"data":      stats,
		"player_id": id,
		"season":    season,
	}, http.StatusOK)
}

// ClearPlayerCache handles DELETE /api/players/{id}/cache
func (h *Handler) ClearPlayerCache(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeServiceError(w, r, err, "CACHE_ERROR", "Failed to clear player cache")
		return
	}

	n, err := h.players.ClearPlayerCache(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "CACHE_ERROR", "Failed to clear player cache")
		return
	}

	h.writeJSON(w, map[string]any{
		"player_id": id,
		"cleared":   n,
	}, http.StatusOK)
}

// GetSeasons handles GET /api/seasons
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	seasons := h.players.AvailableSeasons(r.Context())
	h.writeJSON(w, map[string]any{
		"data":  seasons,
		"count": len(seasons),
	}, http.StatusOK)
}

// GetSession returns the caller's current selection and filter
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	root, ok := session.FromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "SESSION_ERROR", "Session unavailable", nil)
		return
	}
	h.writeJSON(w, map[string]any{
		"data":    root.Snapshot(),
		"version": root.Version(),
	}, http.StatusOK)
}

func (h *Handler) seasonParam(r *http.Request) string {
	if s := r.URL.Query().Get("season"); s != "" {
		return s
	}
	return h.cfg.DefaultSeason
}
