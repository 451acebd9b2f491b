package booking

import (
	"context"
	"errors"

	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/gorm"
)

// Cascades are explicit: removing a category or event removes its
// bookings in the same transaction, so no booking is ever left pointing
// at a category or event that no longer exists.

func (s *Lifecycle) DeleteCategory(ctx context.Context, actorID, categoryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := s.catalog.CategoryByID(tx, categoryID)
		if err != nil {
			return err
		}
		var event models.Event
		if err := tx.First(&event, category.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		ok, err := s.guard.ManagerOfClub(tx, actorID, event.ClubID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAccessDenied
		}

		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

func (s *Lifecycle) DeleteEvent(ctx context.Context, actorID, eventID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		ok, err := s.guard.ManagerOfClub(tx, actorID, event.ClubID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAccessDenied
		}

		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
}
