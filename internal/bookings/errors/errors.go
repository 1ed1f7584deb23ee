package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusConflict means a conditional status update matched nothing:
	// the booking exists but its current status was not in the expected set.
	ErrStatusConflict = errors.New("booking status changed concurrently")

	// ErrDuplicateActiveBooking is the unique-index rejection for a second
	// active booking of the same motorcycle in the same session.
	ErrDuplicateActiveBooking = errors.New("motorcycle already has an active booking in this session")

	// ErrLockHeld means another request currently holds the session's
	// advisory creation lock.
	ErrLockHeld = errors.New("session lock is held by another request")
)
