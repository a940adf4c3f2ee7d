// Package nbastats is a small client for the stats.nba.com JSON API.
//
// The API answers every endpoint with one or more result sets, each a table
// of named headers and positional rows. ResultSet and Row give header-indexed
// access to those tables; the typed helpers on Client (ShotChart, PlayerInfo,
// CareerTotals, AllPlayers) map them onto domain values.
//
// The service rejects requests without browser-like headers and throttles
// aggressive callers, so the client paces requests and retries transient
// failures with exponential backoff. Client errors (4xx) are not retried.
package nbastats
