package domain

// DefaultSeason is the season shown before the user picks one.
const DefaultSeason = "2023-24"

// Filter is the complete record of chart constraints. ShotMade, Period and
// ShotZone are unset when they do not constrain; Season is always set.
type Filter struct {
	ShotMade Optional[bool]     `json:"shotMade"`
	Period   Optional[int]      `json:"period"`
	ShotZone Optional[ShotZone] `json:"shotZone"`
	Season   string             `json:"season"`
}

// DefaultFilter is the filter a fresh session starts with.
func DefaultFilter() Filter {
	return Filter{Season: DefaultSeason}
}

// Matches reports whether s satisfies every set constraint. Season is not
// checked here; it selects which shots are fetched in the first place.
func (f Filter) Matches(s Shot) bool {
	if made, ok := f.ShotMade.Get(); ok && s.ShotMade != made {
		return false
	}
	if period, ok := f.Period.Get(); ok && s.Period != period {
		return false
	}
	if zone, ok := f.ShotZone.Get(); ok && s.ShotZone != zone {
		return false
	}
	return true
}

// Apply returns the shots that match f, preserving order.
func (f Filter) Apply(shots []Shot) []Shot {
	out := make([]Shot, 0, len(shots))
	for _, s := range shots {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks field values. Holders of a Filter never call this; it is
// for the controls that build one from user input.
func (f Filter) Validate() error {
	if err := ValidateSeason(f.Season); err != nil {
		return err
	}
	if period, ok := f.Period.Get(); ok && (period < 1 || period > MaxPeriod) {
		return &ValidationError{Code: CodeInvalidPeriod, Message: "Period must be between 1 and 10"}
	}
	if zone, ok := f.ShotZone.Get(); ok && !zone.Known() {
		return &ValidationError{Code: CodeInvalidShotZone, Message: "unknown shot zone " + string(zone)}
	}
	return nil
}

// MaxPeriod bounds the period filter: four quarters plus up to six
// overtimes.
const MaxPeriod = 10
