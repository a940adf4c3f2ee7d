package domain

import "testing"

func TestParseShotZone(t *testing.T) {
	tests := []struct {
		input   string
		want    ShotZone
		wantErr bool
	}{
		{"mid-range", ZoneMidRange, false},
		{"Mid-Range", ZoneMidRange, false},
		{"In The Paint (Non-RA)", ZonePaint, false},
		{"paint", ZonePaint, false},
		{" ABOVE-BREAK-3 ", ZoneAboveBreak3, false},
		{"left-corner-3", ZoneLeftCorner3, false},
		{"half court", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseShotZone(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseShotZone(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseShotZone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestShotZoneSlugsAreUnique(t *testing.T) {
	seen := make(map[string]ShotZone)
	for _, z := range ShotZones() {
		slug := z.Slug()
		if slug == "" {
			t.Errorf("zone %q has no slug", z)
		}
		if other, ok := seen[slug]; ok {
			t.Errorf("slug %q shared by %q and %q", slug, z, other)
		}
		seen[slug] = z
	}
}

func TestShotIDAndClock(t *testing.T) {
	if got := ShotID("0022300061", 7); got != "shot_0022300061_7" {
		t.Errorf("unexpected shot id %s", got)
	}
	if got := Clock(3, 5); got != "3:05" {
		t.Errorf("expected 3:05, got %s", got)
	}
	if got := Clock(11, 42); got != "11:42" {
		t.Errorf("expected 11:42, got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := Summarize(nil); got != (ShotStats{}) {
			t.Errorf("expected zero stats, got %+v", got)
		}
	})

	t.Run("mixed shots", func(t *testing.T) {
		shots := []Shot{
			{ShotMade: true, ShotType: "2PT Field Goal", ShotDistance: 2},
			{ShotMade: false, ShotType: "2PT Field Goal", ShotDistance: 14},
			{ShotMade: true, ShotType: ThreePointType, ShotDistance: 25},
			{ShotMade: false, ShotType: ThreePointType, ShotDistance: 26},
			{ShotMade: false, ShotType: ThreePointType, ShotDistance: 24},
			{ShotMade: true, ShotType: "2PT Field Goal", ShotDistance: 1},
		}
		got := Summarize(shots)
		want := ShotStats{
			TotalAttempts:        6,
			TotalMade:            3,
			FieldGoalPercentage:  0.5,
			ThreePointAttempts:   3,
			ThreePointMade:       1,
			ThreePointPercentage: 0.333,
			AverageShotDistance:  15.3,
		}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})
}

func TestPlayerNormalize(t *testing.T) {
	p := NewPlayer(2544, "LeBron", "James", true)

	if p.FullName != "LeBron James" {
		t.Errorf("expected full name LeBron James, got %s", p.FullName)
	}
	if p.ImageURL != "https://cdn.nba.com/headshots/nba/latest/1040x760/2544.png" {
		t.Errorf("unexpected image url %s", p.ImageURL)
	}
	if !p.Valid() {
		t.Error("expected player to be valid")
	}

	mononym := NewPlayer(1, "", "Nene", false)
	if mononym.FullName != "Nene" {
		t.Errorf("expected Nene, got %s", mononym.FullName)
	}

	if (Player{FullName: "No ID"}).Valid() {
		t.Error("player without id must not be valid")
	}
}
