// Package storage defines the save-slot persistence contract for game
// sessions.
//
// A save is an opaque compressed blob keyed by slot name plus the summary
// needed to list slots without decoding them. Implementations (in-memory,
// bbolt, SQLite, Postgres) live here and in subpackages.
//
// Common error types:
//   - ErrNotFound: the requested slot does not exist
package storage
