package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"shotchart/internal/domain"
	"shotchart/internal/service"
	"shotchart/internal/session"
	"shotchart/internal/view"
)

// ============================================================================
// Test Helpers
// ============================================================================

type fakePlayers struct {
	mu         sync.Mutex
	dir        map[int]domain.Player
	shots      []domain.Shot
	shotsErr   error
	resolveErr error
	readyErr   error
	cleared    []int
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{
		dir: map[int]domain.Player{
			2544:   domain.NewPlayer(2544, "LeBron", "James", true),
			201939: domain.NewPlayer(201939, "Stephen", "Curry", true),
			977:    domain.NewPlayer(977, "Kobe", "Bryant", false),
		},
		shots: []domain.Shot{
			{ID: "a", LocationX: 0, LocationY: 10, ShotDistance: 1, ShotMade: true, ShotType: "2PT Field Goal", Period: 1, ShotZone: domain.ZoneRestrictedArea},
			{ID: "b", LocationX: -220, LocationY: 20, ShotDistance: 22, ShotMade: false, ShotType: domain.ThreePointType, Period: 4, ShotZone: domain.ZoneLeftCorner3},
		},
	}
}

func (f *fakePlayers) SearchPlayers(_ context.Context, query string, limit int) ([]domain.Player, error) {
	if query == "panic" {
		panic("search exploded")
	}
	query, limit, err := service.ValidateSearch(query, limit)
	if err != nil {
		return nil, err
	}
	out := []domain.Player{}
	for _, p := range f.dir {
		if strings.Contains(strings.ToLower(p.FullName), strings.ToLower(query)) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayers) GetPlayerInfo(_ context.Context, id int) (domain.Player, error) {
	if err := domain.ValidatePlayerID(id); err != nil {
		return domain.Player{}, err
	}
	p, ok := f.dir[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakePlayers) GetPlayerShots(_ context.Context, id int, season, seasonType string) ([]domain.Shot, error) {
	if err := domain.ValidateSeason(season); err != nil {
		return nil, err
	}
	if f.shotsErr != nil {
		return nil, f.shotsErr
	}
	return f.shots, nil
}

func (f *fakePlayers) GetPlayerStats(_ context.Context, id int, season string) (service.PlayerStats, error) {
	return service.PlayerStats{Season: season, ShotStats: domain.Summarize(f.shots)}, nil
}

func (f *fakePlayers) ResolvePlayer(ctx context.Context, id int, season string) (domain.Player, error) {
	if f.resolveErr != nil {
		return domain.Player{}, f.resolveErr
	}
	p, err := f.GetPlayerInfo(ctx, id)
	if err != nil {
		return domain.Player{}, err
	}
	p.Stats = domain.Summarize(f.shots)
	p.StatsSeason = season
	return p, nil
}

func (f *fakePlayers) AvailableSeasons(context.Context) []string {
	return []string{"2023-24", "2022-23"}
}

func (f *fakePlayers) ClearPlayerCache(_ context.Context, id int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	return 3, nil
}

func (f *fakePlayers) Ready(context.Context) error      { return f.readyErr }
func (f *fakePlayers) CacheReady(context.Context) error { return nil }

func newTestHandler(t *testing.T, players *fakePlayers, debug bool) http.Handler {
	t.Helper()
	sessions := session.NewManager(session.Config{Secret: "test"})
	h := New(players, sessions, Config{
		Debug:       debug,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return h.Routes()
}

// client replays the session cookie across requests
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.DefaultCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) snapshot() map[string]any {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/api/session", nil, false)
	if rec.Code != http.StatusOK {
		c.t.Fatalf("GET /api/session = %d", rec.Code)
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		c.t.Fatalf("invalid session JSON: %v", err)
	}
	return body.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("expected body to contain %q", w)
		}
	}
}

// ============================================================================
// Page Tests
// ============================================================================

func TestIndexShowsWelcome(t *testing.T) {
	c := &client{t: t, h: newTestHandler(t, newFakePlayers(), false)}

	rec := c.do(http.MethodGet, "/", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %s", ct)
	}
	assertContains(t, rec.Body.String(), view.Title, `id="main" class="welcome"`, "Get Started", `hx-get="/search"`)
	if c.cookie == nil {
		t.Error("expected a session cookie")
	}

	snap := c.snapshot()
	if snap["selection"] != nil {
		t.Errorf("expected no selection, got %v", snap["selection"])
	}
	filter := snap["filter"].(map[string]any)
	if filter["season"] != domain.DefaultSeason || filter["period"] != nil {
		t.Errorf("expected default filter, got %v", filter)
	}
}

func TestSearchFragment(t *testing.T) {
	c := &client{t: t, h: newTestHandler(t, newFakePlayers(), false)}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"match", "curry", "Stephen Curry"},
		{"inactive marker", "kobe", "(inactive)"},
		{"no match", "zzz", "No players found"},
		{"too short", "a", "at least 2 characters"},
		{"empty clears", "", `<div class="search-results">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(http.MethodGet, "/search?q="+url.QueryEscape(tt.query), nil, true)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET /search = %d", rec.Code)
			}
			assertContains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestSelectAndFilterFlow(t *testing.T) {
	c := &client{t: t, h: newTestHandler(t, newFakePlayers(), false)}
	c.do(http.MethodGet, "/", nil, false)

	rec := c.do(http.MethodPost, "/select", url.Values{"player_id": {"2544"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /select = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	assertContains(t, body, `id="main" class="details"`, "LeBron James", `class="shot made"`, `class="shot missed"`)
	if strings.Contains(body, "<html") {
		t.Error("htmx response should be a fragment")
	}

	rec = c.do(http.MethodPost, "/filters", url.Values{"shot_made": {"made"}, "period": {"1"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /filters = %d: %s", rec.Code, rec.Body.String())
	}
	body = rec.Body.String()
	if strings.Contains(body, `class="shot missed"`) {
		t.Error("missed shots should be filtered out")
	}

	t.Run("filters survive a player switch", func(t *testing.T) {
		c.do(http.MethodPost, "/select", url.Values{"player_id": {"201939"}}, true)

		snap := c.snapshot()
		sel := snap["selection"].(map[string]any)
		if sel["fullName"] != "Stephen Curry" {
			t.Errorf("expected Stephen Curry selected, got %v", sel["fullName"])
		}
		filter := snap["filter"].(map[string]any)
		if filter["shotMade"] != true || filter["period"] != float64(1) {
			t.Errorf("expected filter kept across selection, got %v", filter)
		}
	})

	t.Run("omitted fields keep their value", func(t *testing.T) {
		c.do(http.MethodPost, "/filters", url.Values{"shot_zone": {"restricted-area"}}, true)

		filter := c.snapshot()["filter"].(map[string]any)
		if filter["shotZone"] != string(domain.ZoneRestrictedArea) || filter["period"] != float64(1) {
			t.Errorf("unexpected filter %v", filter)
		}
	})

	t.Run("clearing a constraint", func(t *testing.T) {
		c.do(http.MethodPost, "/filters", url.Values{"period": {"all"}}, true)

		filter := c.snapshot()["filter"].(map[string]any)
		if filter["period"] != nil {
			t.Errorf("expected period cleared, got %v", filter["period"])
		}
	})

	t.Run("plain form posts redirect", func(t *testing.T) {
		rec := c.do(http.MethodPost, "/filters", url.Values{"shot_made": {"any"}}, false)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
			t.Errorf("expected 303 to /, got %d %s", rec.Code, rec.Header().Get("Location"))
		}
	})
}

func TestFiltersRejectInvalidInput(t *testing.T) {
	c := &client{t: t, h: newTestHandler(t, newFakePlayers(), false)}
	c.do(http.MethodGet, "/", nil, false)
	before := c.snapshot()["filter"]

	rec := c.do(http.MethodPost, "/filters", url.Values{"period": {"11"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("htmx POST /filters = %d", rec.Code)
	}
	if rec.Header().Get("HX-Retarget") != "#"+view.FilterErrorID {
		t.Errorf("expected retarget to the error slot, got %q", rec.Header().Get("HX-Retarget"))
	}
	assertContains(t, rec.Body.String(), "Period must be between 1 and 10")

	rec = c.do(http.MethodPost, "/filters", url.Values{"shot_zone": {"downtown"}}, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("plain POST /filters = %d, want 400", rec.Code)
	}

	after := c.snapshot()["filter"]
	if !equalJSON(t, before, after) {
		t.Errorf("filter changed after rejected input: %v -> %v", before, after)
	}
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		resolveErr error
		status     int
		want       string
	}{
		{"unknown player", "42", nil, http.StatusNotFound, "Player not found"},
		{"not a number", "abc", nil, http.StatusBadRequest, "Player ID must be a positive integer"},
		{"out of range", "10000000", nil, http.StatusBadRequest, "between 1 and 9999999"},
		{"upstream failure", "2544", errors.New("stats api timeout"), http.StatusBadGateway, "Unable to load player"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := newFakePlayers()
			players.resolveErr = tt.resolveErr
			c := &client{t: t, h: newTestHandler(t, players, false)}
			form := url.Values{"player_id": {tt.id}}

			t.Run("htmx", func(t *testing.T) {
				rec := c.do(http.MethodPost, "/select", form, true)
				if rec.Code != http.StatusOK {
					t.Fatalf("POST /select = %d, want 200", rec.Code)
				}
				if got := rec.Header().Get("HX-Retarget"); got != "#"+view.SearchResultsID {
					t.Errorf("HX-Retarget = %q, want #%s", got, view.SearchResultsID)
				}
				if got := rec.Header().Get("HX-Reswap"); got != "innerHTML" {
					t.Errorf("HX-Reswap = %q, want innerHTML", got)
				}
				body := rec.Body.String()
				assertContains(t, body, tt.want, `role="alert"`)
				if strings.Contains(body, `id="main"`) || strings.Contains(body, "error-panel") {
					t.Errorf("error must not replace the main region: %s", body)
				}
			})

			t.Run("plain form", func(t *testing.T) {
				rec := c.do(http.MethodPost, "/select", form, false)
				if rec.Code != tt.status {
					t.Fatalf("POST /select = %d, want %d", rec.Code, tt.status)
				}
				assertContains(t, rec.Body.String(), tt.want, "error-panel")
			})

			if c.snapshot()["selection"] != nil {
				t.Error("failed selections must not change state")
			}
		})
	}
}

func TestSelectErrorKeepsMainSwappable(t *testing.T) {
	c := &client{t: t, h: newTestHandler(t, newFakePlayers(), false)}
	c.do(http.MethodPost, "/select", url.Values{"player_id": {"2544"}}, true)

	rec := c.do(http.MethodPost, "/select", url.Values{"player_id": {"42"}}, true)
	if rec.Header().Get("HX-Retarget") == "" {
		t.Fatal("expected the error to be retargeted")
	}

	sel := c.snapshot()["selection"].(map[string]any)
	if sel["fullName"] != "LeBron James" {
		t.Errorf("previous selection lost: %v", sel["fullName"])
	}

	rec = c.do(http.MethodPost, "/select", url.Values{"player_id": {"201939"}}, true)
	assertContains(t, rec.Body.String(), `id="main" class="details"`, "Stephen Curry")
}

func TestConcurrentFilterEditsBothApply(t *testing.T) {
	c := &client{t: t, h: newTestHandler(t, newFakePlayers(), false)}
	c.do(http.MethodGet, "/", nil, false)
	cookie := c.cookie

	post := func(form url.Values) {
		req := httptest.NewRequest(http.MethodPost, "/filters", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		req.AddCookie(cookie)
		c.h.ServeHTTP(httptest.NewRecorder(), req)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			post(url.Values{"shot_made": {"made"}})
		}()
		go func() {
			defer wg.Done()
			post(url.Values{"period": {"2"}})
		}()
	}
	wg.Wait()

	filter := c.snapshot()["filter"].(map[string]any)
	if filter["shotMade"] != true || filter["period"] != float64(2) {
		t.Errorf("expected both edits kept, got %v", filter)
	}
}

func TestChartFailureIsContained(t *testing.T) {
	players := newFakePlayers()
	players.shotsErr = errors.New("upstream timeout")
	c := &client{t: t, h: newTestHandler(t, players, false)}

	c.do(http.MethodPost, "/select", url.Values{"player_id": {"2544"}}, false)
	rec := c.do(http.MethodGet, "/", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}

	body := rec.Body.String()
	assertContains(t, body, view.Title, `hx-get="/search"`, "Shot chart unavailable", "LeBron James", "Data provided by NBA.com")
	if strings.Contains(body, "upstream timeout") {
		t.Error("error text must not leak outside debug mode")
	}
}

func TestStaticAssets(t *testing.T) {
	h := newTestHandler(t, newFakePlayers(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /static/app.css = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), ".container")
}

// ============================================================================
// API Tests
// ============================================================================

func TestAPI(t *testing.T) {
	h := newTestHandler(t, newFakePlayers(), false)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{"test endpoint", http.MethodGet, "/api/test", http.StatusOK, ""},
		{"search", http.MethodGet, "/api/players/search?q=james", http.StatusOK, ""},
		{"search missing query", http.MethodGet, "/api/players/search", http.StatusBadRequest, domain.CodeMissingQuery},
		{"search zero limit", http.MethodGet, "/api/players/search?q=james&limit=0", http.StatusBadRequest, domain.CodeInvalidLimit},
		{"search large limit", http.MethodGet, "/api/players/search?q=james&limit=51", http.StatusBadRequest, domain.CodeInvalidLimit},
		{"player", http.MethodGet, "/api/players/2544", http.StatusOK, ""},
		{"player not numeric", http.MethodGet, "/api/players/abc", http.StatusBadRequest, domain.CodeInvalidPlayerID},
		{"player not found", http.MethodGet, "/api/players/42", http.StatusNotFound, "PLAYER_NOT_FOUND"},
		{"shots", http.MethodGet, "/api/players/2544/shots?season=2022-23", http.StatusOK, ""},
		{"shots bad season", http.MethodGet, "/api/players/2544/shots?season=2022-24", http.StatusBadRequest, domain.CodeInvalidSeasonSequence},
		{"stats", http.MethodGet, "/api/players/2544/stats", http.StatusOK, ""},
		{"clear cache", http.MethodDelete, "/api/players/2544/cache", http.StatusOK, ""},
		{"seasons", http.MethodGet, "/api/seasons", http.StatusOK, ""},
		{"health", http.MethodGet, "/health", http.StatusOK, ""},
		{"api health", http.MethodGet, "/api/health", http.StatusOK, ""},
		{"ready", http.MethodGet, "/api/health/ready", http.StatusOK, ""},
		{"live", http.MethodGet, "/api/health/live", http.StatusOK, ""},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", http.MethodPost, "/api/seasons", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"panic is recovered", http.MethodGet, "/api/players/search?q=panic", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("%s %s = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.status, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %q", ct)
			}
			if tt.code != "" {
				if got := decodeError(t, rec); got.Code != tt.code {
					t.Errorf("error code = %s, want %s", got.Code, tt.code)
				}
			}
		})
	}
}

func TestAPIShotsPayload(t *testing.T) {
	h := newTestHandler(t, newFakePlayers(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/2544/shots", nil))

	var body struct {
		Data       []domain.Shot `json:"data"`
		PlayerID   int           `json:"player_id"`
		Season     string        `json:"season"`
		SeasonType string        `json:"season_type"`
		Count      int           `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.PlayerID != 2544 || body.Season != domain.DefaultSeason || body.SeasonType != domain.SeasonTypeRegular || body.Count != 2 {
		t.Errorf("unexpected payload: %+v", body)
	}
}

func TestErrorDetailsOnlyInDebug(t *testing.T) {
	for _, debug := range []bool{false, true} {
		players := newFakePlayers()
		players.shotsErr = errors.New("upstream timeout")
		h := newTestHandler(t, players, debug)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/2544/shots", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		got := decodeError(t, rec)
		if got.Code != "SHOTS_ERROR" {
			t.Errorf("code = %s, want SHOTS_ERROR", got.Code)
		}
		if hasDetails := got.Details != ""; hasDetails != debug {
			t.Errorf("debug=%v: details = %q", debug, got.Details)
		}
	}
}

func TestReadyReportsFailures(t *testing.T) {
	players := newFakePlayers()
	players.readyErr = errors.New("database is locked")
	h := newTestHandler(t, players, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	assertContains(t, rec.Body.String(), `"not_ready"`, `"directory":"unavailable"`)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, newFakePlayers(), false)

	req := httptest.NewRequest(http.MethodOptions, "/api/seasons", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func equalJSON(t *testing.T, a, b any) bool {
	t.Helper()
	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	jb, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	return string(ja) == string(jb)
}
