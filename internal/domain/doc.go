// Package domain defines the core value types of the shot chart viewer.
//
// Everything here is a plain value: no I/O, no clocks taken implicitly, no
// package-level mutable state. The state, service and view packages build on
// these types.
//
// # Core Types
//
// Player is a basketball player as resolved for display, including the
// season-level shooting aggregates shown next to the chart.
//
// Filter is the complete set of shot-chart constraints. It always carries
// every key; a constraint that does not apply is an unset Optional, never a
// missing field.
//
// Shot is one field-goal attempt with court coordinates in tenths of a foot
// relative to the basket.
//
// # Seasons
//
// Seasons are written "YYYY-YY" (for example "2023-24"). ValidateSeason
// rejects anything else and AvailableSeasons lists the seasons that have
// shot-location data.
//
// # Errors
//
// ValidationError carries a stable machine-readable code so HTTP handlers and
// form controls can report field problems without string matching.
package domain
