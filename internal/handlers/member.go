package handlers

import (
	"context"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type MemberHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewMemberHandler(db *gorm.DB, authHandler *auth.AuthHandler) *MemberHandler {
	return &MemberHandler{db: db, authHandler: authHandler}
}

type MeRequest struct {
	auth.AuthInput
}

type MeResponse struct {
	Body struct {
		ID       uint             `json:"id"`
		Username string           `json:"username"`
		Email    string           `json:"email"`
		Avatar   string           `json:"avatar"`
		Clubs    []ClubMembership `json:"clubs"`
	}
}

type ClubMembership struct {
	ClubID   uint   `json:"club_id"`
	ClubName string `json:"club_name"`
	Role     string `json:"role"`
}

func (h *MemberHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	memberID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var member models.Member
	if err := h.db.First(&member, memberID).Error; err != nil {
		return nil, huma.Error404NotFound("Member not found")
	}

	var memberships []models.Membership
	if err := h.db.Preload("Club").Where("member_id = ?", memberID).Find(&memberships).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load memberships: " + err.Error())
	}

	res := &MeResponse{}
	res.Body.ID = member.ID
	res.Body.Username = member.Username
	res.Body.Email = member.Email
	res.Body.Avatar = member.Avatar
	res.Body.Clubs = make([]ClubMembership, 0, len(memberships))
	for _, m := range memberships {
		res.Body.Clubs = append(res.Body.Clubs, ClubMembership{
			ClubID:   m.ClubID,
			ClubName: m.Club.Name,
			Role:     m.Role,
		})
	}
	return res, nil
}
