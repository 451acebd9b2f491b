package models

import (
	"gorm.io/gorm"
)

const (
	BookingConfirmed = "CONFIRMED"
	BookingUsed      = "USED"
	BookingCancelled = "CANCELLED"
)

// Booking is a member's claim on one seat in one category of one event.
// Identifier is the externally meaningful key: assigned once at creation,
// never changed, never reused. The numeric ID stays internal.
// EventID is denormalized from the category and must always match it.
type Booking struct {
	gorm.Model
	Identifier string   `json:"identifier" gorm:"uniqueIndex"`
	MemberID   uint     `json:"member_id"`
	EventID    uint     `json:"event_id"`
	CategoryID uint     `json:"category_id"`
	Member     Member   `json:"member"`
	Event      Event    `json:"event"`
	Category   Category `json:"category"`
	Status     string   `json:"status"`
}
