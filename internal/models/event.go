package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	Name       string     `json:"name"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     time.Time  `json:"ends_at"`
	Active     bool       `json:"active"`
	ClubID     uint       `json:"club_id"`
	Club       Club       `json:"club"`
	Categories []Category `json:"categories"`
}

// Category is a sub-bucket of an event with its own fixed seat capacity,
// e.g. a ticket tier. Capacity never changes after creation.
type Category struct {
	gorm.Model
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	EventID  uint   `json:"event_id"`
	Event    Event  `json:"event"`
}
