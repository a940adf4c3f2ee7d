package domain

import (
	"fmt"
	"strings"
)

// ThreePointType is the SHOT_TYPE value for attempts from behind the arc.
const ThreePointType = "3PT Field Goal"

// Shot is a single field-goal attempt. LocationX and LocationY are in tenths
// of a foot with the basket at the origin.
type Shot struct {
	ID            string   `json:"id"`
	LocationX     int      `json:"locationX"`
	LocationY     int      `json:"locationY"`
	ShotDistance  int      `json:"shotDistance"`
	ShotMade      bool     `json:"shotMade"`
	ShotType      string   `json:"shotType"`
	Period        int      `json:"period"`
	TimeRemaining string   `json:"timeRemaining"`
	ShotZone      ShotZone `json:"shotZone"`
}

// IsThree reports whether the attempt was a three-pointer.
func (s Shot) IsThree() bool {
	return s.ShotType == ThreePointType
}

// ShotID builds the stable identifier of a shot from its game and event ids.
func ShotID(gameID string, eventID int) string {
	return fmt.Sprintf("shot_%s_%d", gameID, eventID)
}

// Clock formats a game clock as M:SS.
func Clock(minutes, seconds int) string {
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ShotZone is a basic court zone as labelled by the stats provider.
type ShotZone string

const (
	ZoneRestrictedArea ShotZone = "Restricted Area"
	ZonePaint          ShotZone = "In The Paint (Non-RA)"
	ZoneMidRange       ShotZone = "Mid-Range"
	ZoneLeftCorner3    ShotZone = "Left Corner 3"
	ZoneRightCorner3   ShotZone = "Right Corner 3"
	ZoneAboveBreak3    ShotZone = "Above the Break 3"
	ZoneBackcourt      ShotZone = "Backcourt"
)

// ShotZones lists every zone in display order.
func ShotZones() []ShotZone {
	return []ShotZone{
		ZoneRestrictedArea,
		ZonePaint,
		ZoneMidRange,
		ZoneLeftCorner3,
		ZoneRightCorner3,
		ZoneAboveBreak3,
		ZoneBackcourt,
	}
}

var zoneSlugs = map[ShotZone]string{
	ZoneRestrictedArea: "restricted-area",
	ZonePaint:          "paint",
	ZoneMidRange:       "mid-range",
	ZoneLeftCorner3:    "left-corner-3",
	ZoneRightCorner3:   "right-corner-3",
	ZoneAboveBreak3:    "above-break-3",
	ZoneBackcourt:      "backcourt",
}

// Slug returns the URL-safe form of the zone, or "" for unknown zones.
func (z ShotZone) Slug() string {
	return zoneSlugs[z]
}

// Known reports whether z is one of the provider's basic zones.
func (z ShotZone) Known() bool {
	_, ok := zoneSlugs[z]
	return ok
}

func (z ShotZone) String() string {
	return string(z)
}

// ParseShotZone accepts either the provider label or its slug,
// case-insensitively.
func ParseShotZone(s string) (ShotZone, error) {
	s = strings.TrimSpace(s)
	for zone, slug := range zoneSlugs {
		if strings.EqualFold(s, slug) || strings.EqualFold(s, string(zone)) {
			return zone, nil
		}
	}
	return "", &ValidationError{
		Code:    CodeInvalidShotZone,
		Message: fmt.Sprintf("unknown shot zone %q", s),
	}
}
