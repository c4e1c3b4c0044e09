// Package repository defines the data access contract of the service and its
// two implementations: an in-memory store seeded with sample data and a
// MySQL-backed store.  The sentinel values below are shared by both so that
// handlers can distinguish failure scenarios with errors.Is regardless of the
// backend in use.  Absence is always reported as one of the *NotFound
// errors; callers decide whether that becomes a 404.
package repository

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCafeNotFound         = errors.New("cafe not found")
	ErrClubNotFound         = errors.New("club not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// ErrEmailExists and ErrUsernameExists are returned by CreateUser when the
// unique columns collide.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

// ErrAlreadyRegistered is returned when an (event, email) pair already has a
// registration.  It always wins over ErrEventFull.
var ErrAlreadyRegistered = errors.New("already registered")

// ErrEventFull is returned when the event has reached its capacity.
var ErrEventFull = errors.New("event is full")

// ErrAlreadyMember and ErrNotMember guard the club membership join table.
var (
	ErrAlreadyMember = errors.New("already a member")
	ErrNotMember     = errors.New("not a member")
)

// ErrInvalidReference is returned when a row points at a cafe, club or user
// that does not exist.
var ErrInvalidReference = errors.New("invalid reference")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")
