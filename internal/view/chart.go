package view

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"shotchart/internal/domain"
)

var errNoShotSource = errors.New("no shot source configured")

// Court geometry in tenths of a foot, basket at the origin.
const courtViewBox = "-250 -52 500 470"

const courtMarkup = `<g class="court" fill="none" stroke="currentColor" stroke-width="1.5">` +
	`<rect x="-250" y="-47.5" width="500" height="470"/>` +
	`<line x1="-30" y1="-7.5" x2="30" y2="-7.5"/>` +
	`<circle cx="0" cy="0" r="7.5"/>` +
	`<rect x="-80" y="-47.5" width="160" height="190"/>` +
	`<rect x="-60" y="-47.5" width="120" height="190"/>` +
	`<circle cx="0" cy="142.5" r="60"/>` +
	`<path d="M -40 0 A 40 40 0 0 0 40 0"/>` +
	`<line x1="-220" y1="-47.5" x2="-220" y2="92.5"/>` +
	`<line x1="220" y1="-47.5" x2="220" y2="92.5"/>` +
	`<path d="M -220 92.5 A 237.5 237.5 0 0 0 220 92.5"/>` +
	`<path d="M -60 422.5 A 60 60 0 0 1 60 422.5"/>` +
	`</g>`

// ShotChart fetches the player's shots for the filter's season, applies the
// remaining constraints and draws them on a half court with a summary.
// Load failures are returned so an enclosing Boundary can replace the pane.
func ShotChart(src ShotSource, p domain.Player, f domain.Filter, pr *message.Printer) templ.Component {
	pr = printerOr(pr)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if src == nil {
			return errNoShotSource
		}
		shots, err := src.GetPlayerShots(ctx, p.ID, f.Season, domain.SeasonTypeRegular)
		if err != nil {
			return fmt.Errorf("load shots for player %d: %w", p.ID, err)
		}
		visible := f.Apply(shots)
		summary := domain.Summarize(visible)

		h := newWriter(w)
		h.raw(`<div class="panel shot-chart"><h2>`)
		h.text(p.FullName)
		h.raw(` &middot; `)
		h.text(f.Season)
		h.raw(`</h2>`)

		h.raw(`<svg class="court-svg" viewBox="`, courtViewBox, `" role="img" aria-label="Shot chart">`)
		h.raw(courtMarkup)
		h.raw(`<g class="shots">`)
		for _, s := range visible {
			class, result := "shot missed", "Missed"
			if s.ShotMade {
				class, result = "shot made", "Made"
			}
			h.rawf(`<circle class="%s" cx="%d" cy="%d" r="4"><title>`, class, s.LocationX, s.LocationY)
			h.text(fmt.Sprintf("%s %s, %d ft, %s, %s", periodLabel(s.Period), s.TimeRemaining, s.ShotDistance, s.ShotZone, result))
			h.raw(`</title></circle>`)
		}
		h.raw(`</g></svg>`)

		if len(visible) == 0 {
			h.raw(`<p class="muted">No shots match the current filters.</p>`)
		}
		h.raw(`<dl class="summary">`)
		h.raw(`<dt>Shots</dt><dd>`, count(pr, summary.TotalAttempts), `</dd>`)
		h.raw(`<dt>Made</dt><dd>`, count(pr, summary.TotalMade), `</dd>`)
		h.raw(`<dt>FG%</dt><dd>`, percent(pr, summary.FieldGoalPercentage), `</dd>`)
		h.raw(`<dt>3PT</dt><dd>`, count(pr, summary.ThreePointMade), `/`, count(pr, summary.ThreePointAttempts), `</dd>`)
		h.raw(`<dt>Avg distance</dt><dd>`, feet(pr, summary.AverageShotDistance), `</dd>`)
		h.raw(`</dl>`)
		h.raw(`<ul class="legend"><li class="made">Made</li><li class="missed">Missed</li></ul></div>`)
		return h.err
	})
}
