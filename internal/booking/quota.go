package booking

import (
	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/gorm"
)

// A member may hold at most this many confirmed bookings per event,
// counted across all of the event's categories.
const memberEventBookingLimit = 2

// MemberQuota enforces the per-event booking limit. Only CONFIRMED
// bookings count: a cancelled booking frees quota immediately, a used
// one occupies its seat but no longer blocks new bookings.
type MemberQuota struct{}

func (MemberQuota) TryReserve(tx *gorm.DB, memberID, eventID uint) error {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("member_id = ? AND event_id = ? AND status = ?", memberID, eventID, models.BookingConfirmed).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count >= memberEventBookingLimit {
		return ErrLimitReached
	}
	return nil
}
