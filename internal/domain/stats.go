package domain

import "math"

// ShotStats are shooting aggregates for a player over one season.
type ShotStats struct {
	TotalAttempts        int     `json:"totalAttempts"`
	TotalMade            int     `json:"totalMade"`
	FieldGoalPercentage  float64 `json:"fieldGoalPercentage"`
	ThreePointAttempts   int     `json:"threePointAttempts"`
	ThreePointMade       int     `json:"threePointMade"`
	ThreePointPercentage float64 `json:"threePointPercentage"`
	AverageShotDistance  float64 `json:"averageShotDistance"`
}

// SeasonTotals is one season row from a player's career totals.
type SeasonTotals struct {
	Season string  `json:"season"`
	FGM    int     `json:"fgm"`
	FGA    int     `json:"fga"`
	FGPct  float64 `json:"fgPct"`
	FG3M   int     `json:"fg3m"`
	FG3A   int     `json:"fg3a"`
	FG3Pct float64 `json:"fg3Pct"`
}

// Stats converts a totals row into ShotStats. The average distance is not
// part of career totals and is left zero.
func (t SeasonTotals) Stats() ShotStats {
	return ShotStats{
		TotalAttempts:        t.FGA,
		TotalMade:            t.FGM,
		FieldGoalPercentage:  t.FGPct,
		ThreePointAttempts:   t.FG3A,
		ThreePointMade:       t.FG3M,
		ThreePointPercentage: t.FG3Pct,
	}
}

// Summarize aggregates a set of shots. Percentages are fractions in [0,1]
// rounded to three places, matching the provider's *_PCT columns.
func Summarize(shots []Shot) ShotStats {
	var st ShotStats
	var distance int
	for _, s := range shots {
		st.TotalAttempts++
		distance += s.ShotDistance
		if s.ShotMade {
			st.TotalMade++
		}
		if s.IsThree() {
			st.ThreePointAttempts++
			if s.ShotMade {
				st.ThreePointMade++
			}
		}
	}
	st.FieldGoalPercentage = ratio(st.TotalMade, st.TotalAttempts, 3)
	st.ThreePointPercentage = ratio(st.ThreePointMade, st.ThreePointAttempts, 3)
	st.AverageShotDistance = ratio(distance, st.TotalAttempts, 1)
	return st
}

func ratio(num, den, places int) float64 {
	if den == 0 {
		return 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(float64(num)/float64(den)*scale) / scale
}
