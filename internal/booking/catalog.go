package booking

import (
	"errors"

	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/gorm"
)

// EventCatalog is the read-only view of events and categories the
// lifecycle consults. It runs against whatever *gorm.DB it is handed,
// so callers inside a transaction see transactional state.
type EventCatalog struct{}

func (EventCatalog) EventByID(tx *gorm.DB, id uint) (models.Event, error) {
	var event models.Event
	if err := tx.Preload("Categories").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (EventCatalog) CategoryByID(tx *gorm.DB, id uint) (models.Category, error) {
	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}
