// Package sqlite implements the entity store ports over a local
// SQLite database. The schema is created on first open from embedded
// migrations; each insert is a single atomic write and natural keys
// are enforced with UNIQUE constraints. The mirror never updates or
// deletes entity rows.
package sqlite
