package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"shotchart/internal/domain"
)

// SearchResultsID is the element id the result list is swapped into.
const SearchResultsID = "search-results"

// SearchPane renders the search box with an initial query.
func SearchPane(query string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<section class="panel search">`)
		h.raw(`<form method="get" action="/search" role="search"`)
		h.raw(` hx-get="/search" hx-target="#`, SearchResultsID, `" hx-trigger="input changed delay:300ms from:find input, submit">`)
		h.raw(`<input type="search" name="q" placeholder="Search for an NBA player..." autocomplete="off" minlength="2" maxlength="100" value="`)
		h.text(query)
		h.raw(`"><button type="submit">Search</button></form>`)
		h.raw(`<div id="`, SearchResultsID, `"></div></section>`)
		return h.err
	})
}

// SearchResults lists matching players, each with a select button. A non-nil
// err is shown in place of the list.
func SearchResults(query string, players []domain.Player, err error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="search-results">`)
		switch {
		case err != nil:
			msg := "Search failed. Please try again."
			if ve, ok := domain.AsValidation(err); ok {
				msg = ve.Message
			}
			h.raw(`<p class="search-error" role="alert">`)
			h.text(msg)
			h.raw(`</p>`)
		case len(players) == 0 && query != "":
			h.raw(`<p class="muted">No players found for &#34;`)
			h.text(query)
			h.raw(`&#34;.</p>`)
		default:
			h.raw(`<ul>`)
			for _, p := range players {
				h.raw(`<li><form method="post" action="/select" hx-post="/select" hx-target="#`, MainID, `" hx-swap="outerHTML">`)
				h.raw(`<input type="hidden" name="player_id" value="`, strconv.Itoa(p.ID), `">`)
				h.raw(`<button type="submit">`)
				h.text(p.FullName)
				if !p.IsActive {
					h.raw(` <span class="muted">(inactive)</span>`)
				}
				h.raw(`</button></form></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// SelectError is swapped into the result list when a chosen player could not
// be loaded.
func SelectError(title, detail string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<div class="search-results"><p class="search-error" role="alert"><strong>`)
		h.text(title)
		h.raw(`</strong>`)
		if detail != "" {
			h.raw(` `)
			h.text(detail)
		}
		h.raw(`</p></div>`)
		return h.err
	})
}
