package person

import (
	"strings"
	"time"
)

// Gender is the normalized gender value stored on a Person record.
// Matching is case-insensitive at the API boundary; storage is always
// the lowercase canonical form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalizes free-form input ("Male", "FEMALE", "m", "f")
// to a canonical Gender. Returns ErrInvalidGender for anything else.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	case "other", "o":
		return GenderOther, nil
	default:
		return "", ErrInvalidGender
	}
}

// String returns the canonical lowercase form.
func (g Gender) String() string { return string(g) }

// Person is a registry record.
type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Gender    Gender    `json:"gender"`
	Age       int       `json:"age"`
	Mobile    string    `json:"mobile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted when registering a person.
type CreateInput struct {
	Name   string `json:"name" validate:"required,min=1,max=120"`
	Email  string `json:"email" validate:"required,email,max=254"`
	Gender string `json:"gender" validate:"required"`
	Age    int    `json:"age" validate:"required,gte=0,lte=150"`
	Mobile string `json:"mobile" validate:"omitempty,e164"`
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email  *string `json:"email" validate:"omitempty,email,max=254"`
	Gender *string `json:"gender" validate:"omitempty"`
	Age    *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Mobile *string `json:"mobile" validate:"omitempty,e164"`
}
