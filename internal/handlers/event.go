package handlers

import (
	"context"
	"time"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/booking"
	"github.com/clubstack/booking-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type EventHandler struct {
	db          *gorm.DB
	lifecycle   *booking.Lifecycle
	catalog     booking.EventCatalog
	guard       auth.Guard
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, lifecycle *booking.Lifecycle, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, lifecycle: lifecycle, authHandler: authHandler}
}

type CreateEventRequest struct {
	auth.AuthInput
	ClubID uint `path:"id" doc:"Club the event belongs to"`
	Body   struct {
		Name     string    `json:"name" doc:"Name of the event" required:"true"`
		StartsAt time.Time `json:"starts_at" doc:"When the event starts" required:"true"`
		EndsAt   time.Time `json:"ends_at" doc:"When the event ends" required:"true"`
		Active   bool      `json:"active" doc:"Whether bookings are open"`
	}
}

type EventResponse struct {
	Body struct {
		ID       uint      `json:"id"`
		Name     string    `json:"name"`
		StartsAt time.Time `json:"starts_at"`
		EndsAt   time.Time `json:"ends_at"`
		Active   bool      `json:"active"`
		ClubID   uint      `json:"club_id"`
	}
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if !input.Body.EndsAt.After(input.Body.StartsAt) {
		return nil, huma.Error400BadRequest("Event must end after it starts")
	}

	var club models.Club
	if err := h.db.First(&club, input.ClubID).Error; err != nil {
		return nil, huma.Error404NotFound("Club not found")
	}

	ok, err := h.guard.ManagerOfClub(h.db, actorID, club.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check role: " + err.Error())
	}
	if !ok {
		return nil, huma.Error403Forbidden("Access denied: not a manager of this club")
	}

	event := models.Event{
		Name:     input.Body.Name,
		StartsAt: input.Body.StartsAt,
		EndsAt:   input.Body.EndsAt,
		Active:   input.Body.Active,
		ClubID:   club.ID,
	}
	if err := h.db.Create(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create event: " + err.Error())
	}

	res := &EventResponse{}
	res.Body.ID = event.ID
	res.Body.Name = event.Name
	res.Body.StartsAt = event.StartsAt
	res.Body.EndsAt = event.EndsAt
	res.Body.Active = event.Active
	res.Body.ClubID = event.ClubID
	return res, nil
}

type AddCategoryRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event to add the category to"`
	Body    struct {
		Name     string `json:"name" doc:"Name of the category" required:"true"`
		Capacity int    `json:"capacity" doc:"Fixed seat capacity" minimum:"0"`
	}
}

type CategoryResponse struct {
	Body struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
		EventID  uint   `json:"event_id"`
	}
}

func (h *EventHandler) HandleAddCategory(ctx context.Context, input *AddCategoryRequest) (*CategoryResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if input.Body.Capacity < 0 {
		return nil, huma.Error400BadRequest("Capacity must not be negative")
	}

	var event models.Event
	if err := h.db.First(&event, input.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	ok, err := h.guard.ManagerOfClub(h.db, actorID, event.ClubID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check role: " + err.Error())
	}
	if !ok {
		return nil, huma.Error403Forbidden("Access denied: not a manager of this club")
	}

	category := models.Category{
		Name:     input.Body.Name,
		Capacity: input.Body.Capacity,
		EventID:  event.ID,
	}
	if err := h.db.Create(&category).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create category: " + err.Error())
	}

	res := &CategoryResponse{}
	res.Body.ID = category.ID
	res.Body.Name = category.Name
	res.Body.Capacity = category.Capacity
	res.Body.EventID = category.EventID
	return res, nil
}

type DeactivateEventRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event to close for new bookings"`
}

func (h *EventHandler) HandleDeactivateEvent(ctx context.Context, input *DeactivateEventRequest) (*EventResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.First(&event, input.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	ok, err := h.guard.ManagerOfClub(h.db, actorID, event.ClubID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check role: " + err.Error())
	}
	if !ok {
		return nil, huma.Error403Forbidden("Access denied: not a manager of this club")
	}

	if err := h.db.Model(&event).Update("active", false).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to deactivate event: " + err.Error())
	}
	event.Active = false

	res := &EventResponse{}
	res.Body.ID = event.ID
	res.Body.Name = event.Name
	res.Body.StartsAt = event.StartsAt
	res.Body.EndsAt = event.EndsAt
	res.Body.Active = event.Active
	res.Body.ClubID = event.ClubID
	return res, nil
}

type GetEventRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event ID"`
}

type GetEventResponse struct {
	Body struct {
		ID         uint               `json:"id"`
		Name       string             `json:"name"`
		StartsAt   time.Time          `json:"starts_at"`
		EndsAt     time.Time          `json:"ends_at"`
		Active     bool               `json:"active"`
		ClubID     uint               `json:"club_id"`
		Categories []CategorySeatInfo `json:"categories"`
	}
}

type CategorySeatInfo struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Capacity       int    `json:"capacity"`
	SeatsRemaining int    `json:"seats_remaining"`
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*GetEventResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	event, err := h.catalog.EventByID(h.db, input.EventID)
	if err != nil {
		return nil, mapBookingError(err)
	}

	res := &GetEventResponse{}
	res.Body.ID = event.ID
	res.Body.Name = event.Name
	res.Body.StartsAt = event.StartsAt
	res.Body.EndsAt = event.EndsAt
	res.Body.Active = event.Active
	res.Body.ClubID = event.ClubID
	res.Body.Categories = make([]CategorySeatInfo, 0, len(event.Categories))
	for _, c := range event.Categories {
		confirmed, err := booking.ConfirmedCount(h.db, c.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to count bookings: " + err.Error())
		}
		res.Body.Categories = append(res.Body.Categories, CategorySeatInfo{
			ID:             c.ID,
			Name:           c.Name,
			Capacity:       c.Capacity,
			SeatsRemaining: c.Capacity - int(confirmed),
		})
	}
	return res, nil
}

type DeleteEventRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event to delete along with its categories and bookings"`
}

type DeleteResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *DeleteEventRequest) (*DeleteResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if err := h.lifecycle.DeleteEvent(ctx, actorID, input.EventID); err != nil {
		return nil, mapBookingError(err)
	}

	res := &DeleteResponse{}
	res.Body.Message = "Event deleted"
	return res, nil
}

type DeleteCategoryRequest struct {
	auth.AuthInput
	CategoryID uint `path:"id" doc:"Category to delete along with its bookings"`
}

func (h *EventHandler) HandleDeleteCategory(ctx context.Context, input *DeleteCategoryRequest) (*DeleteResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if err := h.lifecycle.DeleteCategory(ctx, actorID, input.CategoryID); err != nil {
		return nil, mapBookingError(err)
	}

	res := &DeleteResponse{}
	res.Body.Message = "Category deleted"
	return res, nil
}
