// Package repositories implements SQLite persistence for accounts and profiles.
//
// Key Implementations:
//   - [UserRepository] : account persistence with email-based lookups and soft deletes
//   - [ProfileRepository] : per-uid profile persistence with fetch-or-create semantics
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
