package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"shotchart/internal/domain"
	"shotchart/internal/state"
)

const (
	// Title is the document title and header text.
	Title    = "NBA Shot Chart Visualizer"
	subtitle = "Explore NBA player shooting patterns with interactive shot charts"
	htmxSrc  = "https://unpkg.com/htmx.org@1.9.12"
)

// ShotSource loads the shots of one player and season.
type ShotSource interface {
	GetPlayerShots(ctx context.Context, playerID int, season, seasonType string) ([]domain.Shot, error)
}

// Deps are the collaborators and settings shared by every component.
type Deps struct {
	Shots   ShotSource
	Seasons []string
	Printer *message.Printer
	// Debug shows error text inside fallback panels.
	Debug bool
}

// Page renders the full document for snap.
func Page(snap state.Snapshot, deps Deps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`, Title, `</title>`)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="`, htmxSrc, `" defer></script>`)
		h.raw(`</head><body><div class="container">`)
		h.render(ctx, Header())
		h.render(ctx, SearchPane(""))
		h.render(ctx, Main(snap.View(), deps))
		h.render(ctx, Footer())
		h.raw(`</div></body></html>`)
		return h.err
	})
}

// Header is the page banner.
func Header() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<header class="site-header"><h1>`, Title, `</h1><p>`, subtitle, `</p></header>`)
		return h.err
	})
}

// Footer credits the data source.
func Footer() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<footer class="site-footer"><p>Data provided by NBA.com</p></footer>`)
		return h.err
	})
}
