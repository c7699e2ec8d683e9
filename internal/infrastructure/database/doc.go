// Package database provides SQLite connection management and schema
// migrations for the person store.
//
// It wraps database/sql with:
//   - Connection setup (WAL mode, busy timeout, foreign keys)
//   - Embedded SQL migrations applied at startup
//   - Health checks and pool statistics for the metrics endpoint
//
// # Usage
//
//	db, err := database.Open(ctx, database.Config{Path: "./data/personreg.db", WALMode: true, BusyTimeout: 5})
//	if err != nil { ... }
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil { ... }
//
// # Thread Safety
//
// *DB is safe for concurrent use. SQLite allows one writer at a time;
// the pool is sized accordingly and readers proceed concurrently in WAL mode.
package database
