package handlers

import (
	"context"
	"time"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/booking"
	"github.com/clubstack/booking-api/internal/models"
)

type BookingHandler struct {
	lifecycle   *booking.Lifecycle
	authHandler *auth.AuthHandler
}

func NewBookingHandler(lifecycle *booking.Lifecycle, authHandler *auth.AuthHandler) *BookingHandler {
	return &BookingHandler{lifecycle: lifecycle, authHandler: authHandler}
}

// BookingBody is the caller-visible shape of a booking. The checkin
// token is only included on create and on owner reads.
type BookingBody struct {
	ID           uint      `json:"id"`
	Identifier   string    `json:"identifier"`
	Status       string    `json:"status"`
	EventID      uint      `json:"event_id"`
	CategoryID   uint      `json:"category_id"`
	MemberID     uint      `json:"member_id"`
	CreatedAt    time.Time `json:"created_at"`
	CheckinToken string    `json:"checkin_token,omitempty"`
}

func bookingBody(b models.Booking, withToken bool) BookingBody {
	body := BookingBody{
		ID:         b.ID,
		Identifier: b.Identifier,
		Status:     b.Status,
		EventID:    b.EventID,
		CategoryID: b.CategoryID,
		MemberID:   b.MemberID,
		CreatedAt:  b.CreatedAt,
	}
	if withToken {
		body.CheckinToken = booking.CheckinToken(b.Identifier)
	}
	return body
}

type CreateBookingRequest struct {
	auth.AuthInput
	Body struct {
		EventID    uint `json:"event_id" doc:"Event to book" required:"true"`
		CategoryID uint `json:"category_id" doc:"Category of the event to book a seat in" required:"true"`
	}
}

type BookingResponse struct {
	Body BookingBody
}

func (h *BookingHandler) HandleCreateBooking(ctx context.Context, input *CreateBookingRequest) (*BookingResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	b, err := h.lifecycle.Create(ctx, actorID, input.Body.EventID, input.Body.CategoryID)
	if err != nil {
		return nil, mapBookingError(err)
	}

	return &BookingResponse{Body: bookingBody(b, true)}, nil
}

type CheckInRequest struct {
	auth.AuthInput
	Body struct {
		Token string `json:"token" doc:"Checkin token scanned at the door" required:"true"`
	}
}

func (h *BookingHandler) HandleCheckIn(ctx context.Context, input *CheckInRequest) (*BookingResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	b, err := h.lifecycle.CheckIn(ctx, actorID, input.Body.Token)
	if err != nil {
		return nil, mapBookingError(err)
	}

	return &BookingResponse{Body: bookingBody(b, false)}, nil
}

type CancelBookingRequest struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Booking ID to cancel"`
}

type CancelBookingResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *BookingHandler) HandleCancelBooking(ctx context.Context, input *CancelBookingRequest) (*CancelBookingResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if err := h.lifecycle.Cancel(ctx, actorID, input.ID); err != nil {
		return nil, mapBookingError(err)
	}

	res := &CancelBookingResponse{}
	res.Body.Message = "Booking cancelled"
	return res, nil
}

type GetBookingRequest struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Booking ID"`
}

func (h *BookingHandler) HandleGetBooking(ctx context.Context, input *GetBookingRequest) (*BookingResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	b, err := h.lifecycle.GetOwned(ctx, actorID, input.ID)
	if err != nil {
		return nil, mapBookingError(err)
	}

	return &BookingResponse{Body: bookingBody(b, true)}, nil
}

type BookingHistoryRequest struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Booking ID"`
}

type BookingHistoryResponse struct {
	Body []BookingHistoryEntry
}

type BookingHistoryEntry struct {
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (h *BookingHandler) HandleBookingHistory(ctx context.Context, input *BookingHistoryRequest) (*BookingHistoryResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	history, err := h.lifecycle.History(ctx, actorID, input.ID)
	if err != nil {
		return nil, mapBookingError(err)
	}

	body := make([]BookingHistoryEntry, 0, len(history))
	for _, entry := range history {
		body = append(body, BookingHistoryEntry{
			Status:     entry.Status,
			RecordedAt: entry.CreatedAt,
		})
	}
	return &BookingHistoryResponse{Body: body}, nil
}

type ListBookingsRequest struct {
	auth.AuthInput
	MemberID   uint   `query:"member_id" doc:"Filter by member"`
	EventID    uint   `query:"event_id" doc:"Filter by event"`
	CategoryID uint   `query:"category_id" doc:"Filter by category"`
	Status     string `query:"status" doc:"Filter by status (CONFIRMED, USED or CANCELLED)"`
}

type ListBookingsResponse struct {
	Body []BookingBody
}

func (h *BookingHandler) HandleListBookings(ctx context.Context, input *ListBookingsRequest) (*ListBookingsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	bookings, err := h.lifecycle.List(ctx, booking.ListFilter{
		MemberID:   input.MemberID,
		EventID:    input.EventID,
		CategoryID: input.CategoryID,
		Status:     input.Status,
	})
	if err != nil {
		return nil, mapBookingError(err)
	}

	body := make([]BookingBody, 0, len(bookings))
	for _, b := range bookings {
		body = append(body, bookingBody(b, false))
	}
	return &ListBookingsResponse{Body: body}, nil
}
