package person

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/triska-dev/person-registry/internal/infrastructure/cache"
	"github.com/triska-dev/person-registry/internal/infrastructure/logging"
)

// testDB creates a temporary SQLite database with the persons schema
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "person-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE persons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			gender TEXT NOT NULL,
			age INTEGER NOT NULL,
			mobile TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE INDEX idx_persons_gender ON persons(gender);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying persons migration: %v", err)
	}

	return db
}

// seedTestPerson inserts a person record and returns it.
func seedTestPerson(t *testing.T, repo Repository, name, email string, gender Gender, age int) *Person {
	t.Helper()

	p := &Person{
		Name:   name,
		Email:  email,
		Gender: gender,
		Age:    age,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("creating test person %s: %v", name, err)
	}
	return p
}

// disabledCache returns a no-op cache client for service tests.
func disabledCache(t *testing.T) *cache.Client {
	t.Helper()

	c, err := cache.Connect(context.Background(), cache.Config{Enabled: false})
	if err != nil {
		t.Fatalf("creating disabled cache: %v", err)
	}
	return c
}

// testLogger returns a logger suitable for tests.
func testLogger() *logging.Logger {
	return logging.Default()
}

// testQueryService wires a query service over a fresh database.
func testQueryService(t *testing.T) (*QueryService, Repository) {
	t.Helper()

	repo := NewRepository(testDB(t))
	svc := NewQueryService(repo, disabledCache(t), testLogger(), QueryConfig{
		ListTTL:         time.Minute,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	})
	return svc, repo
}
