package domain

import "fmt"

// HeadshotURL is the CDN location of player portraits.
const HeadshotURL = "https://cdn.nba.com/headshots/nba/latest/1040x760/%d.png"

// Player is a resolved player as shown in the info pane. Values are compared
// and replaced whole; nothing mutates a Player after it has been selected.
type Player struct {
	ID           int       `json:"id" yaml:"id"`
	FirstName    string    `json:"firstName" yaml:"first_name"`
	LastName     string    `json:"lastName" yaml:"last_name"`
	FullName     string    `json:"fullName" yaml:"full_name"`
	TeamID       int       `json:"teamId" yaml:"team_id,omitempty"`
	TeamName     string    `json:"teamName" yaml:"team_name,omitempty"`
	Position     string    `json:"position" yaml:"position,omitempty"`
	JerseyNumber string    `json:"jerseyNumber" yaml:"jersey_number,omitempty"`
	ImageURL     string    `json:"imageUrl" yaml:"image_url,omitempty"`
	IsActive     bool      `json:"isActive" yaml:"is_active"`
	Stats        ShotStats `json:"stats" yaml:"-"`
	StatsSeason  string    `json:"statsSeason,omitempty" yaml:"-"`
}

// NewPlayer builds a directory entry with the derived full name and
// headshot URL filled in.
func NewPlayer(id int, first, last string, active bool) Player {
	p := Player{
		ID:        id,
		FirstName: first,
		LastName:  last,
		IsActive:  active,
	}
	p.Normalize()
	return p
}

// Normalize fills derived fields that are empty.
func (p *Player) Normalize() {
	if p.FullName == "" {
		switch {
		case p.FirstName == "":
			p.FullName = p.LastName
		case p.LastName == "":
			p.FullName = p.FirstName
		default:
			p.FullName = p.FirstName + " " + p.LastName
		}
	}
	if p.ImageURL == "" && p.ID > 0 {
		p.ImageURL = fmt.Sprintf(HeadshotURL, p.ID)
	}
}

// Valid reports whether p is complete enough to be selected.
func (p Player) Valid() bool {
	return p.ID > 0 && p.FullName != ""
}
