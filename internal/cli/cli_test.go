package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotchart/internal/domain"
	"shotchart/internal/jobs"
	"shotchart/internal/session"
)

// --- helpers ---

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testConfig writes a config pointing at a fresh database in a temp dir
func testConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "shotchart.yaml")
	writeFile(t, path, "database:\n  path: "+filepath.Join(dir, "test.db")+"\nlog:\n  level: error\n"+extra)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// --- command tree ---

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()

	want := map[string]bool{"serve": false, "players": false, "seasons": false, "cache": false, "config": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	for _, flag := range []string{"config", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

// --- parsePlayerIDs ---

func TestParsePlayerIDs(t *testing.T) {
	cases := []struct {
		args    []string
		want    []int
		wantErr bool
	}{
		{nil, []int{}, false},
		{[]string{"2544", "201939"}, []int{2544, 201939}, false},
		{[]string{"lebron"}, nil, true},
		{[]string{"0"}, nil, true},
		{[]string{"10000000"}, nil, true},
	}
	for _, c := range cases {
		got, err := parsePlayerIDs(c.args)
		if (err != nil) != c.wantErr {
			t.Errorf("parsePlayerIDs(%v) error = %v, wantErr %v", c.args, err, c.wantErr)
			continue
		}
		if !c.wantErr && len(got) != len(c.want) {
			t.Errorf("parsePlayerIDs(%v) = %v, want %v", c.args, got, c.want)
		}
	}
}

// --- players ---

func TestPlayersImportSearchExport(t *testing.T) {
	cfgPath := testConfig(t, "")
	roster := filepath.Join(t.TempDir(), "roster.yaml")
	writeFile(t, roster, `version: "1"
players:
  - id: 1628983
    first_name: Shai
    last_name: Gilgeous-Alexander
    full_name: Shai Gilgeous-Alexander
    is_active: true
  - id: 893
    first_name: Michael
    last_name: Jordan
    full_name: Michael Jordan
    is_active: false
`)

	out, err := execute(t, "--config", cfgPath, "players", "import", roster)
	if err != nil {
		t.Fatalf("players import: %v", err)
	}
	if !strings.Contains(out, "Imported 2 players") {
		t.Errorf("unexpected import output: %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "players", "search", "jordan")
	if err != nil {
		t.Fatalf("players search: %v", err)
	}
	if !strings.Contains(out, "893") || !strings.Contains(out, "Michael Jordan") {
		t.Errorf("unexpected search output: %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "players", "search", "zzzz")
	if err != nil {
		t.Fatalf("players search: %v", err)
	}
	if !strings.Contains(out, "no players found") {
		t.Errorf("expected empty result message, got %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "players", "export", "--format", "json")
	if err != nil {
		t.Fatalf("players export: %v", err)
	}
	if !strings.Contains(out, `"players"`) || !strings.Contains(out, "Shai Gilgeous-Alexander") {
		t.Errorf("unexpected export output: %q", out)
	}
}

func TestPlayersSearchSeedsBuiltinRoster(t *testing.T) {
	cfgPath := testConfig(t, "")

	out, err := execute(t, "--config", cfgPath, "players", "search", "curry")
	if err != nil {
		t.Fatalf("players search: %v", err)
	}
	if !strings.Contains(out, "Stephen Curry") {
		t.Errorf("expected builtin roster to be searchable, got %q", out)
	}
}

func TestPlayersImportErrors(t *testing.T) {
	cfgPath := testConfig(t, "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "roster.yaml")
	writeFile(t, bad, "players:\n  - id: 0\n")
	if _, err := execute(t, "--config", cfgPath, "players", "import", bad); err == nil {
		t.Error("expected invalid roster to fail")
	}

	unknown := filepath.Join(dir, "roster.csv")
	writeFile(t, unknown, "id,name\n")
	if _, err := execute(t, "--config", cfgPath, "players", "import", unknown); err == nil {
		t.Error("expected unknown format to fail")
	}

	if _, err := execute(t, "--config", cfgPath, "players", "export", "--format", "xml"); err == nil {
		t.Error("expected unknown export format to fail")
	}
}

// --- seasons ---

func TestSeasons(t *testing.T) {
	cfgPath := testConfig(t, "")

	out, err := execute(t, "--config", cfgPath, "seasons")
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected several seasons, got %q", out)
	}
	if lines[len(lines)-1] != domain.SeasonFor(domain.FirstShotSeason) {
		t.Errorf("last season = %q, want %q", lines[len(lines)-1], domain.SeasonFor(domain.FirstShotSeason))
	}
}

// --- cache ---

func TestCacheWarmRequiresPlayers(t *testing.T) {
	cfgPath := testConfig(t, "")

	_, err := execute(t, "--config", cfgPath, "cache", "warm")
	if err == nil || !strings.Contains(err.Error(), "warm_players") {
		t.Errorf("expected missing players error, got %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	cfgPath := testConfig(t, "")

	out, err := execute(t, "--config", cfgPath, "cache", "clear", "2544")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 0 cache entries for player 2544") {
		t.Errorf("unexpected output: %q", out)
	}
}

// --- config ---

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shotchart.yaml")

	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("unexpected init output: %q", out)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("expected init to refuse overwriting")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "Config: "+path) || !strings.Contains(out, "Default season: "+domain.DefaultSeason) {
		t.Errorf("unexpected show output: %q", out)
	}
}

func TestConfigShowRejectsInvalid(t *testing.T) {
	cfgPath := testConfig(t, "cache:\n  backend: memcached\n")

	if _, err := execute(t, "--config", cfgPath, "config", "show"); err == nil {
		t.Error("expected invalid config to fail")
	}
}

// --- background jobs ---

func TestRegisterJobs(t *testing.T) {
	cfgPath := testConfig(t, "players:\n  sync_interval: 1h\n")

	a, err := openApp(context.Background(), &rootOptions{configPath: cfgPath}, io.Discard)
	if err != nil {
		t.Fatalf("openApp: %v", err)
	}
	defer a.close()

	r := jobs.NewRegistry(a.logger)
	sessions := session.NewManager(session.Config{Secret: "test"})
	if err := registerJobs(r, a, sessions); err != nil {
		t.Fatalf("registerJobs: %v", err)
	}

	want := map[string]bool{
		JobCacheSweep:    true,
		JobCacheWarm:     false,
		JobDirectorySync: true,
		JobSessionSweep:  true,
	}
	infos := r.List()
	if len(infos) != len(want) {
		t.Fatalf("expected %d jobs, got %+v", len(want), infos)
	}
	for _, info := range infos {
		enabled, ok := want[info.Name]
		if !ok {
			t.Errorf("unexpected job %s", info.Name)
			continue
		}
		if info.Enabled != enabled {
			t.Errorf("job %s enabled = %v, want %v", info.Name, info.Enabled, enabled)
		}
	}

	res, err := r.Trigger(context.Background(), JobSessionSweep)
	if err != nil || res.Affected != 0 {
		t.Errorf("session sweep = %+v, %v", res, err)
	}
	if _, err := r.Trigger(context.Background(), JobCacheWarm); err == nil {
		t.Error("expected disabled warm job to refuse a trigger")
	}
}
