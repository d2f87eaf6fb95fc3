// Package domain contains the core business entities and pure helper
// functions for the mirror engine: users, projects and commits as they
// are stored locally, the resolution outcomes produced by the engine,
// and the dotted-path extractor used to read fields out of parsed
// remote payloads.
//
// The domain layer has no dependencies on adapters or external
// services. Entities are identified by their natural keys (login for
// users, owner+name for projects, sha for commits) and are immutable
// once inserted; the engine never updates or deletes a row.
package domain
