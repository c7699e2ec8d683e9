// Package person provides the Person domain model, its SQLite-backed
// store, and the query/command services the HTTP layer depends on.
//
// The query side exposes four read operations: full listing (optionally
// served from the Redis cache), paginated listing, lookup by id, and
// filtering by gender. The command side creates, updates, and deletes
// records, invalidating the list cache on every mutation.
//
// # Thread Safety
//
// SQLiteRepository and both services are safe for concurrent use from
// multiple goroutines (SQLite WAL mode + connection pooling; services
// hold no mutable state).
package person
