// Package state holds the per-session UI state of the shot chart viewer: the
// selected player and the active filter.
//
// A Root owns both cells. Collaborators never see the Root itself; they get
// Callbacks to request transitions and read Snapshots to render. Transitions
// are applied under a single lock in arrival order, so every Snapshot is a
// consistent pair taken from one point in time.
//
// The package performs no I/O. The view package turns a Snapshot into markup
// and the handler package wires Callbacks to HTTP forms.
package state
