package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clubstack/booking-api/internal/database"
	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/gorm"
)

// NewTestDB opens a fresh sqlite database in a per-test temp directory,
// with the same DSN settings the server uses, so concurrent
// transactions behave like production.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func CreateMember(t *testing.T, db *gorm.DB, discordID string) models.Member {
	t.Helper()
	member := models.Member{DiscordID: discordID, Username: discordID}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return member
}

// CreateClub creates a club with the given member as its manager.
func CreateClub(t *testing.T, db *gorm.DB, name string, manager models.Member) models.Club {
	t.Helper()
	club := models.Club{Name: name}
	if err := db.Create(&club).Error; err != nil {
		t.Fatalf("failed to create club: %v", err)
	}
	AddMembership(t, db, club, manager, models.RoleManager)
	return club
}

func AddMembership(t *testing.T, db *gorm.DB, club models.Club, member models.Member, role string) {
	t.Helper()
	membership := models.Membership{MemberID: member.ID, ClubID: club.ID, Role: role}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
}

// CreateEvent creates an active event starting a day from now.
func CreateEvent(t *testing.T, db *gorm.DB, club models.Club, name string) models.Event {
	t.Helper()
	return CreateEventAt(t, db, club, name, time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour), true)
}

func CreateEventAt(t *testing.T, db *gorm.DB, club models.Club, name string, startsAt, endsAt time.Time, active bool) models.Event {
	t.Helper()
	event := models.Event{
		Name:     name,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Active:   active,
		ClubID:   club.ID,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

func CreateCategory(t *testing.T, db *gorm.DB, event models.Event, name string, capacity int) models.Category {
	t.Helper()
	category := models.Category{Name: name, Capacity: capacity, EventID: event.ID}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}
