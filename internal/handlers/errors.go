package handlers

import (
	"errors"

	"github.com/clubstack/booking-api/internal/booking"
	"github.com/danielgtaylor/huma/v2"
)

// mapBookingError translates the booking package's sentinel errors into
// boundary responses: not-found -> 404, rule conflicts -> 409, access
// denials -> 403, malformed tokens -> 422.
func mapBookingError(err error) error {
	switch {
	case errors.Is(err, booking.ErrEventNotFound),
		errors.Is(err, booking.ErrCategoryNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, booking.ErrInactiveEvent),
		errors.Is(err, booking.ErrCategoryMismatch),
		errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrLimitReached),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrEventAlreadyStarted):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, booking.ErrAccessDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, booking.ErrInvalidToken):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("Internal error: " + err.Error())
	}
}
