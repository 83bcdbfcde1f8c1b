package booking

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrStudioNotFound    = errors.New("studio not found")
	ErrStudioInactive    = errors.New("studio is not accepting bookings")
	ErrSlotUnavailable   = errors.New("this time is already booked, pick another")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrInvalidInput      = errors.New("invalid booking input")
	ErrNotAuthorized     = errors.New("not authorized to perform this action")
)
