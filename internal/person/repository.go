package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for person persistence.
type Repository interface {
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id int64) (*Person, error)
	List(ctx context.Context) ([]Person, error)
	ListPage(ctx context.Context, req PageRequest) ([]Person, error)
	ListByGender(ctx context.Context, gender Gender) ([]Person, error)
	Update(ctx context.Context, p *Person) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// sortColumns whitelists the fields a page request may sort by, mapped
// to their column names. Anything else is rejected as an invalid page
// request.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"gender":     "gender",
	"age":        "age",
	"created_at": "created_at",
}

const personColumns = "id, name, email, gender, age, mobile, created_at, updated_at"

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed person repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new person record and backfills the generated ID.
func (r *SQLiteRepository) Create(ctx context.Context, p *Person) error {
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	p.UpdatedAt = p.CreatedAt

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO persons (name, email, gender, age, mobile, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Email, string(p.Gender), p.Age, nullString(p.Mobile), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return wrapStoreErr("creating person", err)
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("creating person: %w", err)
	}
	return nil
}

// GetByID retrieves a person by their numeric ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Person, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM persons WHERE id = ?", id)
	return scanPersonFrom(row)
}

// List returns all person records in stable id order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Person, error) {
	return r.queryPersons(ctx,
		"SELECT "+personColumns+" FROM persons ORDER BY id ASC")
}

// ListPage returns one page of person records. The sort order always
// carries an id tiebreaker so that consecutive pages partition the
// full listing without overlap.
func (r *SQLiteRepository) ListPage(ctx context.Context, req PageRequest) ([]Person, error) {
	orderBy, err := buildOrderBy(req.Sort)
	if err != nil {
		return nil, err
	}
	return r.queryPersons(ctx,
		"SELECT "+personColumns+" FROM persons ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		req.Size, req.Offset())
}

// ListByGender returns all person records with the given gender in
// stable id order.
func (r *SQLiteRepository) ListByGender(ctx context.Context, gender Gender) ([]Person, error) {
	return r.queryPersons(ctx,
		"SELECT "+personColumns+" FROM persons WHERE gender = ? ORDER BY id ASC",
		string(gender))
}

// Update modifies a person's mutable fields.
func (r *SQLiteRepository) Update(ctx context.Context, p *Person) error {
	now := time.Now().UTC().Format(time.RFC3339)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE persons SET name = ?, email = ?, gender = ?, age = ?, mobile = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Email, string(p.Gender), p.Age, nullString(p.Mobile), now, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return wrapStoreErr("updating person", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// Delete removes a person record by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return wrapStoreErr("deleting person", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// Count returns the total number of person records.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons").Scan(&count); err != nil {
		return 0, wrapStoreErr("counting persons", err)
	}
	return count, nil
}

// queryPersons executes a multi-row query and scans the results.
func (r *SQLiteRepository) queryPersons(ctx context.Context, query string, args ...any) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("listing persons", err)
	}
	defer rows.Close()

	var persons []Person
	for rows.Next() {
		p, err := scanPersonFrom(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating persons: %w", err)
	}

	if persons == nil {
		persons = []Person{}
	}
	return persons, nil
}

// buildOrderBy renders a validated ORDER BY clause from sort orders.
// An id tiebreaker is appended unless id is already present.
func buildOrderBy(sort []SortOrder) (string, error) {
	if len(sort) == 0 {
		return "id ASC", nil
	}

	parts := make([]string, 0, len(sort)+1)
	sawID := false
	for _, s := range sort {
		col, ok := sortColumns[strings.ToLower(s.Field)]
		if !ok {
			return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidPageRequest, s.Field)
		}
		if col == "id" {
			sawID = true
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if !sawID {
		parts = append(parts, "id ASC")
	}
	return strings.Join(parts, ", "), nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanPersonFrom scans a person from any scanner (Row or Rows).
func scanPersonFrom(s scanner) (*Person, error) {
	var p Person
	var gender string
	var mobile sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&p.ID, &p.Name, &p.Email, &gender, &p.Age, &mobile, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("scanning person: %w", err)
	}

	p.Gender = Gender(gender)
	if mobile.Valid {
		p.Mobile = mobile.String
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &p, nil
}

// Helper functions.

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isUniqueViolation checks for a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapStoreErr maps connection-level failures to ErrStoreUnavailable
// and wraps everything else with the operation name.
func wrapStoreErr(op string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "unable to open database") ||
		strings.Contains(msg, "database is closed") {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
