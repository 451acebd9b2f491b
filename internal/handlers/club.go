package handlers

import (
	"context"
	"errors"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type ClubHandler struct {
	db          *gorm.DB
	guard       auth.Guard
	authHandler *auth.AuthHandler
}

func NewClubHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ClubHandler {
	return &ClubHandler{db: db, authHandler: authHandler}
}

type CreateClubRequest struct {
	auth.AuthInput
	Body struct {
		Name string `json:"name" doc:"Name of the club" required:"true"`
	}
}

type CreateClubResponse struct {
	Body struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
}

// HandleCreateClub creates a club and makes the creator its first
// manager in the same transaction.
func (h *ClubHandler) HandleCreateClub(ctx context.Context, input *CreateClubRequest) (*CreateClubResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	club := models.Club{Name: input.Body.Name}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&club).Error; err != nil {
			return err
		}
		membership := models.Membership{
			MemberID: actorID,
			ClubID:   club.ID,
			Role:     models.RoleManager,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to create club: " + err.Error())
	}

	res := &CreateClubResponse{}
	res.Body.ID = club.ID
	res.Body.Name = club.Name
	return res, nil
}

type AddMemberRequest struct {
	auth.AuthInput
	ClubID uint `path:"id" doc:"Club to add the member to"`
	Body   struct {
		MemberID uint   `json:"member_id" doc:"Member to add" required:"true"`
		Role     string `json:"role,omitempty" enum:"member,manager" doc:"Role in the club, defaults to member"`
	}
}

type AddMemberResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// HandleAddMember grants club membership. Only managers may grant it.
func (h *ClubHandler) HandleAddMember(ctx context.Context, input *AddMemberRequest) (*AddMemberResponse, error) {
	actorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var club models.Club
	if err := h.db.First(&club, input.ClubID).Error; err != nil {
		return nil, huma.Error404NotFound("Club not found")
	}

	ok, err := h.guard.ManagerOfClub(h.db, actorID, club.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check role: " + err.Error())
	}
	if !ok {
		return nil, huma.Error403Forbidden("Access denied: not a manager of this club")
	}

	var member models.Member
	if err := h.db.First(&member, input.Body.MemberID).Error; err != nil {
		return nil, huma.Error404NotFound("Member not found")
	}

	role := input.Body.Role
	if role == "" {
		role = models.RoleMember
	}

	var existing models.Membership
	err = h.db.Where("member_id = ? AND club_id = ?", member.ID, club.ID).First(&existing).Error
	if err == nil {
		return nil, huma.Error409Conflict("Member already belongs to this club")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error500InternalServerError("Database error checking membership: " + err.Error())
	}

	membership := models.Membership{
		MemberID: member.ID,
		ClubID:   club.ID,
		Role:     role,
	}
	if err := h.db.Create(&membership).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to add member: " + err.Error())
	}

	res := &AddMemberResponse{}
	res.Body.Message = "Member added to club"
	return res, nil
}
