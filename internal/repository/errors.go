// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrAlreadyCheckedIn indicates that a logbook entry already
// has its check-in time set and must not be checked in twice, while
// ErrDuplicate signals a unique-key collision on signup.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the caller. Handlers should translate this into an HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a signup or profile update collides
// with an existing email address.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicate is returned for unique-key collisions other than email
// (aadhar number, college id). Handlers should translate this into an
// HTTP 400 with a generic duplicate message.
var ErrDuplicate = errors.New("duplicate value")

// ErrAlreadyCheckedIn is returned when a check-in is attempted on a
// logbook entry whose in_time is already set. The row is left unchanged.
// Handlers should translate this into an HTTP 400.
var ErrAlreadyCheckedIn = errors.New("already checked in")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
