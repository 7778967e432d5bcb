package booking

import (
	"errors"
	"fmt"
)

// Error kinds returned by the booking engine.  Callers match them with
// errors.Is; the concrete *Error carries the offending entity and id.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid request")
)

// Error is the typed failure returned by Service operations.
type Error struct {
	Kind   error  // one of ErrNotFound, ErrConflict, ErrForbidden, ErrInvalid
	Entity string // "user", "room", "booking" or "" for request-level errors
	ID     uint64 // id of the offending entity, 0 when not applicable
	Reason string
}

func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.Reason != "":
		return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Reason)
	case e.Entity != "":
		return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Kind)
	case e.Reason != "":
		return e.Reason
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

func notFound(entity string, id uint64) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id, Reason: entity + " not found"}
}

func conflict(entity string, id uint64, reason string) error {
	return &Error{Kind: ErrConflict, Entity: entity, ID: id, Reason: reason}
}

func forbidden(id uint64) error {
	return &Error{Kind: ErrForbidden, Entity: "booking", ID: id, Reason: "booking belongs to another user"}
}

func invalid(reason string) error {
	return &Error{Kind: ErrInvalid, Reason: reason}
}
