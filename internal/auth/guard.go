package auth

import (
	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/gorm"
)

// Guard answers role- and membership-based access questions from the
// Membership rows. Each predicate is a plain (actor, resource) check so
// it can be tested on its own; the booking lifecycle composes them
// before every state transition.
type Guard struct{}

func (Guard) MemberOfClub(tx *gorm.DB, memberID, clubID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Membership{}).
		Where("member_id = ? AND club_id = ?", memberID, clubID).
		Count(&count).Error
	return count > 0, err
}

func (Guard) ManagerOfClub(tx *gorm.DB, memberID, clubID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Membership{}).
		Where("member_id = ? AND club_id = ? AND role = ?", memberID, clubID, models.RoleManager).
		Count(&count).Error
	return count > 0, err
}

// OwnerOrManager allows the booking's own member, or any manager of the
// club that owns the booking's event.
func (g Guard) OwnerOrManager(tx *gorm.DB, actorID uint, booking models.Booking, clubID uint) (bool, error) {
	if booking.MemberID == actorID {
		return true, nil
	}
	return g.ManagerOfClub(tx, actorID, clubID)
}
