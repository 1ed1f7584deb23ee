package errors

import "errors"

var (
	ErrNotFound = errors.New("session not found")

	ErrInvalidID = errors.New("invalid session ID format")

	// ErrSessionFull is the losing side of the atomic seat reservation: the
	// session exists but booked_slots has reached available_slots.
	ErrSessionFull = errors.New("session has no remaining seats")

	// ErrNoSeatsBooked means a release found booked_slots already at 0.
	ErrNoSeatsBooked = errors.New("session has no booked seats to release")

	// ErrCapacityBelowBooked rejects shrinking available_slots under the
	// seats already booked.
	ErrCapacityBelowBooked = errors.New("capacity cannot shrink below booked seats")
)
