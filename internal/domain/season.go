package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// FirstShotSeason is the earliest season with shot-location data.
	FirstShotSeason = 1996

	minSeasonYear = 1946
	maxSeasonYear = 2030
)

// ValidateSeason checks s is a well-formed season such as "2023-24".
func ValidateSeason(s string) error {
	if s == "" {
		return &ValidationError{Code: CodeMissingSeason, Message: "Season parameter is required"}
	}
	if len(s) != 7 || s[4] != '-' {
		return &ValidationError{Code: CodeInvalidSeasonFormat, Message: `Season must be in format YYYY-YY (e.g., "2023-24")`}
	}
	start, err1 := strconv.Atoi(s[:4])
	end, err2 := strconv.Atoi(s[5:])
	if err1 != nil || err2 != nil || start < 0 || end < 0 {
		return &ValidationError{Code: CodeInvalidSeasonFormat, Message: "Season must contain valid years"}
	}
	if start < minSeasonYear || start > maxSeasonYear {
		return &ValidationError{
			Code:    CodeInvalidSeasonYear,
			Message: fmt.Sprintf("Season year must be between %d and %d", minSeasonYear, maxSeasonYear),
		}
	}
	if want := (start + 1) % 100; end != want {
		return &ValidationError{
			Code:    CodeInvalidSeasonSequence,
			Message: fmt.Sprintf("Invalid season sequence. Expected %d-%02d", start, want),
		}
	}
	return nil
}

// SeasonFor formats the season that starts in year.
func SeasonFor(year int) string {
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// CurrentSeasonYear returns the start year of the season in progress at t.
// A season starts in October.
func CurrentSeasonYear(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year()
	}
	return t.Year() - 1
}

// AvailableSeasons lists every season with shot data up to the one in
// progress at now, most recent first.
func AvailableSeasons(now time.Time) []string {
	last := CurrentSeasonYear(now)
	seasons := make([]string, 0, last-FirstShotSeason+1)
	for year := last; year >= FirstShotSeason; year-- {
		seasons = append(seasons, SeasonFor(year))
	}
	return seasons
}
