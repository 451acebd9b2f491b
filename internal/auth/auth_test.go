package auth

import (
	"context"
	"testing"
	"time"

	"github.com/clubstack/booking-api/internal/config"
	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAuthorize(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(&models.Member{}, &models.APIKey{})

	member := models.Member{
		DiscordID: "123456",
		Username:  "testmember",
		Email:     "test@example.com",
	}
	db.Create(&member)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	t.Run("ValidToken", func(t *testing.T) {
		token, _ := handler.GenerateToken(member.ID)
		id, err := handler.Authorize(context.Background(), AuthInput{Cookie: "auth_token=" + token})
		if err != nil {
			t.Fatalf("Authorize returned error: %v", err)
		}
		if id != member.ID {
			t.Errorf("expected member ID %d, got %d", member.ID, id)
		}
	})

	t.Run("NoCredentials", func(t *testing.T) {
		if _, err := handler.Authorize(context.Background(), AuthInput{}); err == nil {
			t.Fatal("expected error for missing credentials, got nil")
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		if _, err := handler.Authorize(context.Background(), AuthInput{Cookie: "auth_token=bogus"}); err == nil {
			t.Fatal("expected error for invalid token, got nil")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewAuthHandler(&config.Config{JWTSecret: "other-secret"}, db)
		token, _ := other.GenerateToken(member.ID)
		if _, err := handler.Authorize(context.Background(), AuthInput{Cookie: "auth_token=" + token}); err == nil {
			t.Fatal("expected error for token signed with wrong secret, got nil")
		}
	})

	t.Run("APIKey", func(t *testing.T) {
		key := models.APIKey{MemberID: member.ID, Key: "valid-key", Name: "test"}
		db.Create(&key)

		id, err := handler.Authorize(context.Background(), AuthInput{APIKey: "valid-key"})
		if err != nil {
			t.Fatalf("Authorize returned error: %v", err)
		}
		if id != member.ID {
			t.Errorf("expected member ID %d, got %d", member.ID, id)
		}

		var used models.APIKey
		db.First(&used, key.ID)
		if used.LastUsedAt == nil {
			t.Error("expected last_used_at to be updated")
		}
	})

	t.Run("ExpiredAPIKey", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		key := models.APIKey{MemberID: member.ID, Key: "expired-key", Name: "old", ExpiresAt: &expired}
		db.Create(&key)

		if _, err := handler.Authorize(context.Background(), AuthInput{APIKey: "expired-key"}); err == nil {
			t.Fatal("expected error for expired API key, got nil")
		}
	})

	t.Run("UnknownAPIKey", func(t *testing.T) {
		if _, err := handler.Authorize(context.Background(), AuthInput{APIKey: "nope"}); err == nil {
			t.Fatal("expected error for unknown API key, got nil")
		}
	})
}
