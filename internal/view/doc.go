// Package view renders the shot chart pages as templ components.
//
// Components are plain templ.Component values built with templ.ComponentFunc
// so they compose with any other templ code and can be served with
// templ.Handler.
//
// # Layout
//
// Page is the full document: a header, the player search pane, the main
// region and a footer. Main chooses between the welcome placeholder and the
// three detail panes (player info, filter controls, shot chart) from a single
// state snapshot.
//
// # Error containment
//
// Boundary renders its child into a buffer. If the child panics or returns an
// error, the partial output is dropped and a fallback panel is written
// instead. The detail panes sit inside boundaries; the header and the search
// pane do not, so a failing chart never takes them down.
//
// # Filter controls
//
// NextFilter builds the next complete filter record from the previous one and
// a submitted form. Only fields present in the form change.
package view
