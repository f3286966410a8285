// Package repository implements raw-SQL data access for the marketplace
// entities.  This file defines sentinel errors shared across repositories.
// Handlers and services use errors.Is against these values to pick the
// right HTTP status instead of string-matching database errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, e.g. a vendor editing another vendor's ticket.
// Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a status transition cannot be performed
// because the row is no longer in the state the transition requires, such
// as accepting a booking that has already been rejected or advertising a
// ticket that is not approved.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInsufficientInventory is returned by the booking flow when the
// requested quantity exceeds the ticket's remaining quantity.  The
// availability check and the decrement are the same conditional UPDATE,
// so concurrent bookings cannot race past it.  Handlers translate this
// into HTTP 400.
var ErrInsufficientInventory = errors.New("insufficient inventory")
