// Package repository defines storage interfaces for the player directory.
//
// The directory is the local list of players the search box matches against.
// It is seeded from a roster file and can be refreshed from the stats API;
// shot data is never stored here.
//
// The sqlite subpackage provides the implementation.
package repository
