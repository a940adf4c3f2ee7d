package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"shotchart/internal/state"
)

// MainID is the element id of the swappable main region.
const MainID = "main"

// Main renders the main region for v: the welcome placeholder when nothing is
// selected, otherwise the three detail panes inside error boundaries.
func Main(v state.View, deps Deps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		switch v := v.(type) {
		case state.Empty:
			h.raw(`<main id="`, MainID, `" class="welcome">`)
			h.render(ctx, Welcome())
		case state.Populated:
			h.raw(`<main id="`, MainID, `" class="details">`)
			h.render(ctx, Boundary{
				Name:     "details",
				Child:    details(v, deps),
				Fallback: panelFallback("Unable to display this player", deps.Debug),
			})
		default:
			return fmt.Errorf("unknown view %T", v)
		}
		h.raw(`</main>`)
		return h.err
	})
}

// Welcome is shown until a player is selected.
func Welcome() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="panel welcome-panel">`)
		h.raw(`<div class="welcome-icon" aria-hidden="true">&#127936;</div>`)
		h.raw(`<h2>Get Started</h2>`)
		h.raw(`<p>Search for an NBA player above to view their shot chart and shooting statistics.</p>`)
		h.raw(`<p class="hint">Try searching for popular players like &#34;LeBron James&#34;, &#34;Stephen Curry&#34;, or &#34;Giannis Antetokounmpo&#34;</p>`)
		h.raw(`</div>`)
		return h.err
	})
}

func details(v state.Populated, deps Deps) templ.Component {
	pr := printerOr(deps.Printer)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="grid"><aside class="sidebar">`)
		h.render(ctx, Boundary{
			Name:     "player-info",
			Child:    PlayerInfo(v.Player, pr),
			Fallback: panelFallback("Player details unavailable", deps.Debug),
		})
		h.render(ctx, Boundary{
			Name:     "filters",
			Child:    FilterControls(v.Filter, deps.Seasons),
			Fallback: panelFallback("Filters unavailable", deps.Debug),
		})
		h.raw(`</aside><section class="chart-column">`)
		h.render(ctx, Boundary{
			Name:     "shot-chart",
			Child:    ShotChart(deps.Shots, v.Player, v.Filter, pr),
			Fallback: panelFallback("Shot chart unavailable", deps.Debug),
		})
		h.raw(`</section></div>`)
		return h.err
	})
}
