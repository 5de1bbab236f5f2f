// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a query or escalation owned by someone else,
// while ErrBadTransition signals an escalation status update that
// would move backward in the pending -> in-progress -> resolved chain.
package repository

import "errors"

// ErrNotFound is returned when a looked-up record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrPhoneExists is returned when signup is attempted with a phone
// number that is already registered. Translates to HTTP 409.
var ErrPhoneExists = errors.New("phone already registered")

// ErrOTPInvalid is returned when a submitted one-time passcode does
// not match the stored one, has expired, or was already consumed.
// Translates to HTTP 400.
var ErrOTPInvalid = errors.New("invalid or expired OTP")

// ErrBadTransition is returned when an escalation status update does
// not advance the status. Translates to HTTP 409.
var ErrBadTransition = errors.New("status transition not allowed")
