package models

import (
	"gorm.io/gorm"
)

type Club struct {
	gorm.Model
	Name string `json:"name"`
}

const (
	RoleMember  = "member"
	RoleManager = "manager"
)

// Membership records that a member belongs to a club, optionally as a manager.
// It is the only input the authorization guard consumes.
type Membership struct {
	gorm.Model
	MemberID uint   `json:"member_id" gorm:"uniqueIndex:idx_member_club"`
	ClubID   uint   `json:"club_id" gorm:"uniqueIndex:idx_member_club"`
	Member   Member `json:"member"`
	Club     Club   `json:"club"`
	Role     string `json:"role"`
}
