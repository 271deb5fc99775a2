package core

import (
	"errors"
	"fmt"

	"github.com/edvin/mabruk/internal/store"
)

// Outcome errors returned by the services. Callers test them with errors.Is;
// the wrapped message names the entity involved.
var (
	ErrNotFound = errors.New("not found")

	// ErrNotFoundReference is a foreign id that does not resolve. It wraps
	// ErrNotFound so both are reported the same way.
	ErrNotFoundReference = fmt.Errorf("reference %w", ErrNotFound)

	ErrDuplicateKey  = errors.New("duplicate key")
	ErrDuplicateLink = errors.New("duplicate link")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrValidation    = errors.New("validation failed")
)

// notFound converts a store miss on entity id into ErrNotFound and wraps any
// other store error with op.
func notFound(err error, op, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// writeError converts errors raised by the backend's own constraints on
// insert or update. These surface when a concurrent write slipped past the
// pre-checks.
func writeError(err error, op string, duplicate error) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %v", duplicate, err)
	case errors.Is(err, store.ErrInvalidReference):
		return fmt.Errorf("%w: %v", ErrNotFoundReference, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// updateError is writeError for updates, where the row itself may be gone.
func updateError(err error, op, entity string, id int64, duplicate error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(err, op, entity, id)
	}
	return writeError(err, op, duplicate)
}

// reason is the metric label for an outcome error, or "" for anything that is
// not a rejected write.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotFoundReference):
		return "not_found_reference"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, ErrDuplicateLink):
		return "duplicate_link"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrValidation):
		return "validation"
	}
	return ""
}
