// Package handler implements the HTTP surface of the shot chart application.
//
// The router serves two audiences from one process: browsers get server
// rendered pages whose regions are swapped by HTMX, and API clients get JSON.
//
// # Pages
//
// GET / renders the full document for the caller's session. Requests carrying
// the HX-Request header get only the fragment they target:
//
//   - GET /search?q= returns the result list for the search pane
//   - POST /select resolves a player and selects it, returning the main region
//   - POST /filters replaces the filter record, returning the main region
//
// Page state lives in a per-session state root (see package session). Handlers
// only ever change it through the root's callbacks.
//
// # API
//
// JSON endpoints live under /api. Success responses wrap their payload in
// {"data": ...}. Errors use the envelope
//
//	{"error": {"code": "...", "message": "...", "details": "..."}}
//
// where details is only filled in debug mode.
//
// # Health
//
// /health and /api/health report liveness and build info, /api/health/ready
// checks the player directory and cache, /api/health/live always succeeds.
package handler
