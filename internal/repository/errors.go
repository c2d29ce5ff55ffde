// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between failure scenarios
// without inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email address is
// already registered. Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrReservationNotFound is returned when no reservation with the
// requested id exists.
var ErrReservationNotFound = errors.New("reservation not found")
