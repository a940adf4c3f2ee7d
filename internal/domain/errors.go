package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrPlayerNotFound = errors.New("player not found")
)

// Validation codes reported to clients.
const (
	CodeMissingQuery          = "MISSING_QUERY"
	CodeQueryTooShort         = "QUERY_TOO_SHORT"
	CodeQueryTooLong          = "QUERY_TOO_LONG"
	CodeInvalidLimit          = "INVALID_LIMIT"
	CodeInvalidPlayerID       = "INVALID_PLAYER_ID"
	CodeInvalidPlayerIDRange  = "INVALID_PLAYER_ID_RANGE"
	CodeMissingSeason         = "MISSING_SEASON"
	CodeInvalidSeasonFormat   = "INVALID_SEASON_FORMAT"
	CodeInvalidSeasonYear     = "INVALID_SEASON_YEAR"
	CodeInvalidSeasonSequence = "INVALID_SEASON_SEQUENCE"
	CodeInvalidSeasonType     = "INVALID_SEASON_TYPE"
	CodeInvalidPeriod         = "INVALID_PERIOD"
	CodeInvalidShotZone       = "INVALID_SHOT_ZONE"
	CodeInvalidShotMade       = "INVALID_SHOT_MADE"
)

// ValidationError reports a rejected input value.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsValidation unwraps err to a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ValidatePlayerID checks that id is in the provider's id range.
func ValidatePlayerID(id int) error {
	if id <= 0 {
		return &ValidationError{Code: CodeInvalidPlayerID, Message: "Player ID must be a positive integer"}
	}
	if id > 9999999 {
		return &ValidationError{Code: CodeInvalidPlayerIDRange, Message: "Player ID must be between 1 and 9999999"}
	}
	return nil
}

// Season types accepted by the shot endpoint.
const (
	SeasonTypeRegular  = "Regular Season"
	SeasonTypePlayoffs = "Playoffs"
)

// ValidateSeasonType checks t is a supported season type.
func ValidateSeasonType(t string) error {
	switch t {
	case SeasonTypeRegular, SeasonTypePlayoffs:
		return nil
	}
	return &ValidationError{Code: CodeInvalidSeasonType, Message: `Season type must be "Regular Season" or "Playoffs"`}
}
