// Package cache provides a Redis-backed response cache.
//
// The only cached value today is the full person collection listing, which
// the query service stores as JSON with a configurable TTL and invalidates
// on every mutation. The cache is an accelerator, never a source of truth:
// misses and Redis errors fall through to the SQLite store.
//
// The client degrades to a no-op when the cache is disabled in config, so
// call sites never branch on availability.
package cache
