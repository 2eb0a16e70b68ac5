// Package models defines domain entities and persistence interfaces for the vidtube access gate.
//
// The package contains two categories of types:
//
// 1. Transient state: values that only live in memory
//   - [Session] : signed-in/signed-out state of the current viewer
//
// 2. Persistent entities: database-backed models
//   - [User] : local and OAuth accounts
//   - [Profile] : per-user age verification attributes, keyed by the auth uid
//
// Persistent entities implement the [Model] interface. The [Repository] interface defines standard CRUD operations for database access.
package models
