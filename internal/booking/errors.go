package booking

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInactiveEvent       = errors.New("event is not active")
	ErrCategoryMismatch    = errors.New("category does not belong to event")
	ErrCapacityExceeded    = errors.New("category capacity exceeded")
	ErrLimitReached        = errors.New("booking limit for event reached")
	ErrInvalidState        = errors.New("booking is not in a valid state for this transition")
	ErrEventAlreadyStarted = errors.New("event has already started")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidToken        = errors.New("invalid checkin token")
)
