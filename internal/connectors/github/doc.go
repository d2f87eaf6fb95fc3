// Package github implements the remote side of the mirror engine: a
// rate-limited HTTP client for the GitHub API.
//
// # Rate Limiting
//
// Requests pass through a fixed-window limiter configured from
// mirror.reqrate: a call counter and a window-start timestamp. When a
// full window has elapsed the counter resets silently; when the budget
// is exhausted mid-window the caller blocks for the time already spent
// in the window before a fresh window begins. Bursts at a window
// boundary can momentarily exceed the steady-state rate but never
// exceed the budget within any single window measured from its own
// start. Rate waits are never errors.
//
// # Error Handling
//
// The client distinguishes expected absence from fatal failure:
//
//   - Statuses 400, 401, 403, 404 and 422 are conditions the remote
//     models as normal responses; they are converted into a synthetic
//     payload {"error": <reason>} and returned without error, so the
//     engine reads missing entities the same way as missing optional
//     fields.
//   - Any other non-2xx status, transport failure or JSON parse
//     failure is returned as an error and aborts the operation. The
//     client does not retry.
//
// # Authentication
//
// A personal access token configured as mirror.token raises the remote
// quota from 60 to 5,000 requests per hour. The token is carried by an
// oauth2 static token source; unauthenticated use is supported.
package github
