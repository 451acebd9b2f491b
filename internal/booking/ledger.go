package booking

import (
	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/gorm"
)

// CapacityLedger admits or rejects a new booking against a category's
// fixed capacity. The count is recomputed from the booking rows inside
// the caller's transaction on every admission; there is no separate
// counter that could drift out of sync.
type CapacityLedger struct{}

// TryReserve admits one seat in the category or fails with
// ErrCapacityExceeded. It must run inside the same transaction that
// inserts the booking row, so the count it sees cannot go stale before
// the insert commits.
func (CapacityLedger) TryReserve(tx *gorm.DB, category models.Category) error {
	count, err := ConfirmedCount(tx, category.ID)
	if err != nil {
		return err
	}
	if count >= int64(category.Capacity) {
		return ErrCapacityExceeded
	}
	return nil
}

// ConfirmedCount returns the number of confirmed bookings currently
// held against the category.
func ConfirmedCount(tx *gorm.DB, categoryID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("category_id = ? AND status = ?", categoryID, models.BookingConfirmed).
		Count(&count).Error
	return count, err
}
