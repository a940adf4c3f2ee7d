package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"shotchart/internal/domain"
)

// PlayerInfo shows the selected player's identity and season aggregates.
func PlayerInfo(p domain.Player, pr *message.Printer) templ.Component {
	pr = printerOr(pr)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="panel player-info">`)
		if p.ImageURL != "" {
			h.raw(`<img class="headshot" src="`, safeURL(p.ImageURL), `" alt="`)
			h.text(p.FullName)
			h.raw(`" loading="lazy">`)
		}
		h.raw(`<h2>`)
		h.text(p.FullName)
		h.raw(`</h2><dl class="bio">`)
		bio := []struct{ label, value string }{
			{"Team", p.TeamName},
			{"Position", p.Position},
			{"Jersey", p.JerseyNumber},
		}
		for _, row := range bio {
			if row.value == "" {
				continue
			}
			h.raw(`<dt>`, row.label, `</dt><dd>`)
			h.text(row.value)
			h.raw(`</dd>`)
		}
		if !p.IsActive {
			h.raw(`<dt>Status</dt><dd>Inactive</dd>`)
		}
		h.raw(`</dl>`)

		st := p.Stats
		h.raw(`<h3>Season Stats`)
		if p.StatsSeason != "" {
			h.raw(` `)
			h.text(p.StatsSeason)
		}
		h.raw(`</h3>`)
		if st.TotalAttempts == 0 {
			h.raw(`<p class="muted">No shooting stats available.</p></div>`)
			return h.err
		}
		h.raw(`<dl class="stats">`)
		h.raw(`<dt>FG</dt><dd>`, count(pr, st.TotalMade), `/`, count(pr, st.TotalAttempts), ` (`, percent(pr, st.FieldGoalPercentage), `)</dd>`)
		h.raw(`<dt>3PT</dt><dd>`, count(pr, st.ThreePointMade), `/`, count(pr, st.ThreePointAttempts), ` (`, percent(pr, st.ThreePointPercentage), `)</dd>`)
		if st.AverageShotDistance > 0 {
			h.raw(`<dt>Avg distance</dt><dd>`, feet(pr, st.AverageShotDistance), `</dd>`)
		}
		h.raw(`</dl></div>`)
		return h.err
	})
}
