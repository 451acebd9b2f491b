package handlers

import (
	"context"
	"testing"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/config"
	"github.com/clubstack/booking-api/internal/testutil"
)

func TestHandleCreateClubMakesCreatorManager(t *testing.T) {
	db := testutil.NewTestDB(t)
	creator := testutil.CreateMember(t, db, "creator")

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	handler := NewClubHandler(db, authHandler)

	token, _ := authHandler.GenerateToken(creator.ID)
	req := &CreateClubRequest{AuthInput: auth.AuthInput{Cookie: "auth_token=" + token}}
	req.Body.Name = "Chess Club"

	resp, err := handler.HandleCreateClub(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleCreateClub returned error: %v", err)
	}

	var guard auth.Guard
	isManager, err := guard.ManagerOfClub(db, creator.ID, resp.Body.ID)
	if err != nil {
		t.Fatalf("ManagerOfClub returned error: %v", err)
	}
	if !isManager {
		t.Error("expected the creator to be a manager of the new club")
	}
}

func TestHandleAddMember(t *testing.T) {
	db := testutil.NewTestDB(t)
	manager := testutil.CreateMember(t, db, "manager")
	joiner := testutil.CreateMember(t, db, "joiner")
	club := testutil.CreateClub(t, db, "Chess Club", manager)

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	handler := NewClubHandler(db, authHandler)
	ctx := context.Background()

	managerToken, _ := authHandler.GenerateToken(manager.ID)
	req := &AddMemberRequest{
		AuthInput: auth.AuthInput{Cookie: "auth_token=" + managerToken},
		ClubID:    club.ID,
	}
	req.Body.MemberID = joiner.ID

	if _, err := handler.HandleAddMember(ctx, req); err != nil {
		t.Fatalf("HandleAddMember returned error: %v", err)
	}

	var guard auth.Guard
	isMember, err := guard.MemberOfClub(db, joiner.ID, club.ID)
	if err != nil {
		t.Fatalf("MemberOfClub returned error: %v", err)
	}
	if !isMember {
		t.Error("expected the joiner to be a member of the club")
	}

	t.Run("Duplicate", func(t *testing.T) {
		if _, err := handler.HandleAddMember(ctx, req); err == nil {
			t.Fatal("expected an error for a duplicate membership")
		} else if got := statusOf(t, err); got != 409 {
			t.Errorf("expected status 409, got %d", got)
		}
	})

	t.Run("NonManagerCannotGrant", func(t *testing.T) {
		third := testutil.CreateMember(t, db, "third")
		joinerToken, _ := authHandler.GenerateToken(joiner.ID)
		denied := &AddMemberRequest{
			AuthInput: auth.AuthInput{Cookie: "auth_token=" + joinerToken},
			ClubID:    club.ID,
		}
		denied.Body.MemberID = third.ID

		if _, err := handler.HandleAddMember(ctx, denied); err == nil {
			t.Fatal("expected an error for a non-manager")
		} else if got := statusOf(t, err); got != 403 {
			t.Errorf("expected status 403, got %d", got)
		}
	})
}
