package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/models"
	"github.com/clubstack/booking-api/internal/notifier"
	"gorm.io/gorm"
)

// Lifecycle is the only writer of booking rows. Every transition runs
// inside a single database transaction; the catalog, quota and ledger
// checks all see the same transactional state, so a rejection means
// nothing was written.
//
// State machine: CONFIRMED is the only initial state. CONFIRMED -> USED
// via check-in and CONFIRMED -> CANCELLED via cancel are the only
// transitions, and both target states are terminal.
type Lifecycle struct {
	db       *gorm.DB
	guard    auth.Guard
	catalog  EventCatalog
	ledger   CapacityLedger
	quota    MemberQuota
	issuer   IdentifierIssuer
	notifier notifier.Notifier
}

func NewLifecycle(db *gorm.DB, n notifier.Notifier) *Lifecycle {
	return &Lifecycle{db: db, notifier: n}
}

// Create books one seat in the category for the acting member. The
// membership, active-event, quota and capacity checks and the insert
// all commit or roll back together; two requests racing for the last
// seat produce exactly one booking and one ErrCapacityExceeded.
func (s *Lifecycle) Create(ctx context.Context, actorID, eventID, categoryID uint) (models.Booking, error) {
	var booking models.Booking
	var member models.Member
	var event models.Event
	var category models.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if err = tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if category, err = s.catalog.CategoryByID(tx, categoryID); err != nil {
			return err
		}
		if category.EventID != event.ID {
			return ErrCategoryMismatch
		}

		ok, err := s.guard.MemberOfClub(tx, actorID, event.ClubID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAccessDenied
		}

		if !event.Active {
			return ErrInactiveEvent
		}

		if err := s.quota.TryReserve(tx, actorID, event.ID); err != nil {
			return err
		}
		if err := s.ledger.TryReserve(tx, category); err != nil {
			return err
		}

		booking = models.Booking{
			Identifier: s.issuer.Issue(),
			MemberID:   actorID,
			EventID:    event.ID,
			CategoryID: category.ID,
			Status:     models.BookingConfirmed,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		if err := snapshot(tx, booking); err != nil {
			return err
		}
		return tx.First(&member, actorID).Error
	})
	if err != nil {
		return models.Booking{}, err
	}

	s.notify(member, event, category, booking.Status)
	return booking, nil
}

// CheckIn marks the booking behind the token as USED. Only a manager of
// the club that owns the booking's event may check members in.
func (s *Lifecycle) CheckIn(ctx context.Context, actorID uint, token string) (models.Booking, error) {
	identifier, err := ParseCheckinToken(token)
	if err != nil {
		return models.Booking{}, err
	}

	var booking models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Event").Preload("Category").Preload("Member").
			Where("identifier = ?", identifier).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		ok, err := s.guard.ManagerOfClub(tx, actorID, booking.Event.ClubID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAccessDenied
		}

		if booking.Status != models.BookingConfirmed {
			return ErrInvalidState
		}

		booking.Status = models.BookingUsed
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("status", models.BookingUsed).Error; err != nil {
			return err
		}
		return snapshot(tx, booking)
	})
	if err != nil {
		return models.Booking{}, err
	}

	s.notify(booking.Member, booking.Event, booking.Category, booking.Status)
	return booking, nil
}

// Cancel releases the booking's seat and quota. The booking's owner or
// a club manager may cancel, but not once the event has started.
func (s *Lifecycle) Cancel(ctx context.Context, actorID, bookingID uint) error {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Event").Preload("Category").Preload("Member").
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		ok, err := s.guard.OwnerOrManager(tx, actorID, booking, booking.Event.ClubID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAccessDenied
		}

		if booking.Status != models.BookingConfirmed {
			return ErrInvalidState
		}
		if !time.Now().Before(booking.Event.StartsAt) {
			return ErrEventAlreadyStarted
		}

		booking.Status = models.BookingCancelled
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("status", models.BookingCancelled).Error; err != nil {
			return err
		}
		return snapshot(tx, booking)
	})
	if err != nil {
		return err
	}

	s.notify(booking.Member, booking.Event, booking.Category, booking.Status)
	return nil
}

type ListFilter struct {
	MemberID   uint
	EventID    uint
	CategoryID uint
	Status     string
}

// List returns bookings matching the filter, newest first.
func (s *Lifecycle) List(ctx context.Context, filter ListFilter) ([]models.Booking, error) {
	q := s.db.WithContext(ctx).Model(&models.Booking{})
	if filter.MemberID != 0 {
		q = q.Where("member_id = ?", filter.MemberID)
	}
	if filter.EventID != 0 {
		q = q.Where("event_id = ?", filter.EventID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var bookings []models.Booking
	if err := q.Order("id desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetOwned returns a booking if the actor owns it or manages the owning
// club, so the checkin token is only handed to people entitled to it.
func (s *Lifecycle) GetOwned(ctx context.Context, actorID, bookingID uint) (models.Booking, error) {
	var booking models.Booking
	db := s.db.WithContext(ctx)
	if err := db.Preload("Event").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}
	ok, err := s.guard.OwnerOrManager(db, actorID, booking, booking.Event.ClubID)
	if err != nil {
		return models.Booking{}, err
	}
	if !ok {
		return models.Booking{}, ErrAccessDenied
	}
	return booking, nil
}

// History returns the audit trail of a booking, oldest first, for the
// booking's owner or a club manager.
func (s *Lifecycle) History(ctx context.Context, actorID, bookingID uint) ([]models.BookingHistory, error) {
	if _, err := s.GetOwned(ctx, actorID, bookingID); err != nil {
		return nil, err
	}
	var history []models.BookingHistory
	if err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).Order("id asc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// snapshot appends the booking's current state to the audit trail
// within the same transaction as the transition itself.
func snapshot(tx *gorm.DB, b models.Booking) error {
	return tx.Create(&models.BookingHistory{
		BookingID:  b.ID,
		Identifier: b.Identifier,
		MemberID:   b.MemberID,
		EventID:    b.EventID,
		CategoryID: b.CategoryID,
		Status:     b.Status,
	}).Error
}

func (s *Lifecycle) notify(member models.Member, event models.Event, category models.Category, status string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBooking(member, event, category, status); err != nil {
		log.Printf("Failed to send booking notification: %v", err)
	}
}
