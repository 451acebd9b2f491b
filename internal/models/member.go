package models

import (
	"gorm.io/gorm"
)

type Member struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
}
