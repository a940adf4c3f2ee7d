// Package service implements business logic for the shot chart application.
//
// This package sits between the HTTP handlers and the data sources: the local
// player directory (SQLite), the upstream stats API and the response cache.
//
// # Services
//
// PlayerService answers player search, resolves players for selection,
// fetches shot locations and season shooting totals, and lists the seasons
// for which shot data exists. Every read is validated first and then served
// from the cache when possible.
//
// # Directory
//
// The player directory is seeded from a roster (built-in or a file on disk)
// and can be refreshed from the upstream player index. Imports are upserts,
// so a re-import never removes players.
//
// # Design Principles
//
// - Validation errors are *domain.ValidationError with stable codes
// - Upstream enrichment is best effort; the directory stays authoritative
// - Cache failures never fail a request
package service
