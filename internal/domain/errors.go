package domain

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the store and services. Handlers map
// these onto HTTP statuses; anything else becomes a generic 500.
var (
	// ErrNotFound indicates a lookup matched no record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers both unknown identity and wrong
	// password so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccount indicates a registration reused an existing
	// account number.
	ErrDuplicateAccount = errors.New("account number already exists")

	// ErrNothingToVerify indicates the verify precondition failed: the
	// payment does not exist or is no longer PENDING.
	ErrNothingToVerify = errors.New("nothing to verify")

	// ErrForbidden indicates an authenticated caller lacks the role.
	ErrForbidden = errors.New("forbidden")
)

// FieldError names a single input field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every failing field of a request so the
// client receives the full list in one response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid input: " + strings.Join(names, ", ")
}
