package models

import (
	"gorm.io/gorm"
)

// BookingHistory is an append-only snapshot of a booking at each state
// transition. Rows are never updated or deleted, so the audit trail
// survives cascade deletes of the booking itself.
type BookingHistory struct {
	gorm.Model
	BookingID  uint   `json:"booking_id"`
	Identifier string `json:"identifier"`
	MemberID   uint   `json:"member_id"`
	EventID    uint   `json:"event_id"`
	CategoryID uint   `json:"category_id"`
	Status     string `json:"status"`
}
