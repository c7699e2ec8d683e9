package person

import "errors"

var (
	// ErrPersonNotFound indicates no record exists for the given id.
	ErrPersonNotFound = errors.New("person not found")

	// ErrEmailExists indicates a create or update collided with an
	// existing record's email (unique constraint).
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidGender indicates the gender value could not be parsed.
	ErrInvalidGender = errors.New("invalid gender")

	// ErrInvalidPageRequest indicates page, size, or sort parameters
	// were out of range or malformed.
	ErrInvalidPageRequest = errors.New("invalid page request")

	// ErrStoreUnavailable indicates the backing store could not be
	// reached. Callers map this to 503.
	ErrStoreUnavailable = errors.New("person store unavailable")
)
