package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clubstack/booking-api/internal/models"
	"github.com/clubstack/booking-api/internal/testutil"
)

func TestCreateBooking(t *testing.T) {
	db := testutil.NewTestDB(t)
	member := testutil.CreateMember(t, db, "member-1")
	club := testutil.CreateClub(t, db, "Chess Club", member)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	category := testutil.CreateCategory(t, db, event, "Standard", 10)

	lifecycle := NewLifecycle(db, nil)

	booking, err := lifecycle.Create(context.Background(), member.ID, event.ID, category.ID)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if booking.Status != models.BookingConfirmed {
		t.Errorf("expected status CONFIRMED, got %s", booking.Status)
	}
	if booking.Identifier == "" {
		t.Error("expected a non-empty identifier")
	}
	if booking.EventID != event.ID || booking.CategoryID != category.ID || booking.MemberID != member.ID {
		t.Errorf("booking references wrong rows: %+v", booking)
	}

	// Identifier must be stable across reads.
	var reread models.Booking
	if err := db.First(&reread, booking.ID).Error; err != nil {
		t.Fatalf("failed to re-read booking: %v", err)
	}
	if reread.Identifier != booking.Identifier {
		t.Errorf("identifier changed across reads: %q vs %q", booking.Identifier, reread.Identifier)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	db := testutil.NewTestDB(t)
	member := testutil.CreateMember(t, db, "member-1")
	outsider := testutil.CreateMember(t, db, "outsider")
	club := testutil.CreateClub(t, db, "Chess Club", member)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	category := testutil.CreateCategory(t, db, event, "Standard", 5)

	otherClub := testutil.CreateClub(t, db, "Other Club", member)
	otherEvent := testutil.CreateEvent(t, db, otherClub, "Other Open")

	inactive := testutil.CreateEventAt(t, db, club, "Closed Open",
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour), false)
	inactiveCategory := testutil.CreateCategory(t, db, inactive, "Standard", 5)

	zeroCap := testutil.CreateCategory(t, db, event, "Zero", 0)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	cases := []struct {
		name       string
		actorID    uint
		eventID    uint
		categoryID uint
		want       error
	}{
		{"unknown event", member.ID, 9999, category.ID, ErrEventNotFound},
		{"unknown category", member.ID, event.ID, 9999, ErrCategoryNotFound},
		{"category of another event", member.ID, otherEvent.ID, category.ID, ErrCategoryMismatch},
		{"actor not a club member", outsider.ID, event.ID, category.ID, ErrAccessDenied},
		{"inactive event", member.ID, inactive.ID, inactiveCategory.ID, ErrInactiveEvent},
		{"capacity zero always rejects", member.ID, event.ID, zeroCap.ID, ErrCapacityExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lifecycle.Create(ctx, tc.actorID, tc.eventID, tc.categoryID)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// None of the rejected attempts may have left a row behind.
	var count int64
	db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 bookings after rejections, got %d", count)
	}
}

// Mirrors the full capacity/quota walkthrough: two seats in C1, the
// per-event limit of two bookings per member, and quota release on
// cancellation.
func TestCapacityAndQuotaScenario(t *testing.T) {
	db := testutil.NewTestDB(t)
	m1 := testutil.CreateMember(t, db, "m1")
	m2 := testutil.CreateMember(t, db, "m2")
	m3 := testutil.CreateMember(t, db, "m3")
	club := testutil.CreateClub(t, db, "Chess Club", m1)
	testutil.AddMembership(t, db, club, m2, models.RoleMember)
	testutil.AddMembership(t, db, club, m3, models.RoleMember)

	event := testutil.CreateEvent(t, db, club, "Spring Open")
	c1 := testutil.CreateCategory(t, db, event, "C1", 2)
	c2 := testutil.CreateCategory(t, db, event, "C2", 2)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	// M1 books C1 and C2, filling the per-event quota.
	if _, err := lifecycle.Create(ctx, m1.ID, event.ID, c1.ID); err != nil {
		t.Fatalf("M1 booking C1 failed: %v", err)
	}
	b2, err := lifecycle.Create(ctx, m1.ID, event.ID, c2.ID)
	if err != nil {
		t.Fatalf("M1 booking C2 failed: %v", err)
	}

	// Third booking by M1 against any category of the event is rejected.
	if _, err := lifecycle.Create(ctx, m1.ID, event.ID, c1.ID); !errors.Is(err, ErrLimitReached) {
		t.Errorf("expected ErrLimitReached for M1's third booking, got %v", err)
	}

	// M2 takes C1's last seat; M3 is turned away.
	if _, err := lifecycle.Create(ctx, m2.ID, event.ID, c1.ID); err != nil {
		t.Fatalf("M2 booking C1 failed: %v", err)
	}
	if _, err := lifecycle.Create(ctx, m3.ID, event.ID, c1.ID); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded for M3, got %v", err)
	}

	// Cancelling frees M1's quota immediately.
	if err := lifecycle.Cancel(ctx, m1.ID, b2.ID); err != nil {
		t.Fatalf("M1 cancelling C2 booking failed: %v", err)
	}
	if _, err := lifecycle.Create(ctx, m1.ID, event.ID, c2.ID); err != nil {
		t.Errorf("M1 rebooking after cancel failed: %v", err)
	}

	// Invariants over the final state.
	confirmed, err := ConfirmedCount(db, c1.ID)
	if err != nil {
		t.Fatalf("ConfirmedCount failed: %v", err)
	}
	if confirmed > int64(c1.Capacity) {
		t.Errorf("capacity invariant violated: %d confirmed > capacity %d", confirmed, c1.Capacity)
	}
}

func TestCheckIn(t *testing.T) {
	db := testutil.NewTestDB(t)
	manager := testutil.CreateMember(t, db, "manager")
	member := testutil.CreateMember(t, db, "member")
	club := testutil.CreateClub(t, db, "Chess Club", manager)
	testutil.AddMembership(t, db, club, member, models.RoleMember)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	category := testutil.CreateCategory(t, db, event, "Standard", 5)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	b, err := lifecycle.Create(ctx, member.ID, event.ID, category.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	token := CheckinToken(b.Identifier)

	// Plain members may not check anyone in.
	if _, err := lifecycle.CheckIn(ctx, member.ID, token); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for non-manager, got %v", err)
	}

	used, err := lifecycle.CheckIn(ctx, manager.ID, token)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if used.Status != models.BookingUsed {
		t.Errorf("expected status USED, got %s", used.Status)
	}

	// USED is terminal.
	if _, err := lifecycle.CheckIn(ctx, manager.ID, token); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState on second check-in, got %v", err)
	}
	if err := lifecycle.Cancel(ctx, member.ID, b.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState cancelling a used booking, got %v", err)
	}

	// A used booking no longer occupies confirmed quota for new creations.
	if _, err := lifecycle.Create(ctx, member.ID, event.ID, category.ID); err != nil {
		t.Errorf("expected new booking after check-in to succeed, got %v", err)
	}

	// Token for an unknown identifier resolves to nothing.
	var issuer IdentifierIssuer
	if _, err := lifecycle.CheckIn(ctx, manager.ID, CheckinToken(issuer.Issue())); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}

	// Garbage token fails validation before any lookup.
	if _, err := lifecycle.CheckIn(ctx, manager.ID, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	manager := testutil.CreateMember(t, db, "manager")
	member := testutil.CreateMember(t, db, "member")
	other := testutil.CreateMember(t, db, "other")
	club := testutil.CreateClub(t, db, "Chess Club", manager)
	testutil.AddMembership(t, db, club, member, models.RoleMember)
	testutil.AddMembership(t, db, club, other, models.RoleMember)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	category := testutil.CreateCategory(t, db, event, "Standard", 5)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	b, err := lifecycle.Create(ctx, member.ID, event.ID, category.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Another plain member may not cancel someone else's booking.
	if err := lifecycle.Cancel(ctx, other.ID, b.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}

	// A manager may.
	if err := lifecycle.Cancel(ctx, manager.ID, b.ID); err != nil {
		t.Fatalf("manager cancel failed: %v", err)
	}

	// CANCELLED is terminal.
	if err := lifecycle.Cancel(ctx, member.ID, b.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState on second cancel, got %v", err)
	}
	if _, err := lifecycle.CheckIn(ctx, manager.ID, CheckinToken(b.Identifier)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState checking in a cancelled booking, got %v", err)
	}

	if err := lifecycle.Cancel(ctx, member.ID, 9999); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCancelAfterEventStarted(t *testing.T) {
	db := testutil.NewTestDB(t)
	member := testutil.CreateMember(t, db, "member")
	club := testutil.CreateClub(t, db, "Chess Club", member)
	event := testutil.CreateEventAt(t, db, club, "Running Open",
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour), true)
	category := testutil.CreateCategory(t, db, event, "Standard", 5)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	b, err := lifecycle.Create(ctx, member.ID, event.ID, category.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Move the start into the past after booking.
	if err := db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("starts_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("failed to backdate event: %v", err)
	}

	if err := lifecycle.Cancel(ctx, member.ID, b.ID); !errors.Is(err, ErrEventAlreadyStarted) {
		t.Errorf("expected ErrEventAlreadyStarted, got %v", err)
	}

	// The booking is untouched.
	var reread models.Booking
	if err := db.First(&reread, b.ID).Error; err != nil {
		t.Fatalf("failed to re-read booking: %v", err)
	}
	if reread.Status != models.BookingConfirmed {
		t.Errorf("expected booking to stay CONFIRMED, got %s", reread.Status)
	}
}

// Two requests racing for the last seat must produce exactly one
// booking and one capacity rejection.
func TestConcurrentCreateLastSeat(t *testing.T) {
	db := testutil.NewTestDB(t)
	m1 := testutil.CreateMember(t, db, "m1")
	m2 := testutil.CreateMember(t, db, "m2")
	club := testutil.CreateClub(t, db, "Chess Club", m1)
	testutil.AddMembership(t, db, club, m2, models.RoleMember)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	category := testutil.CreateCategory(t, db, event, "Standard", 1)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i, memberID := range []uint{m1.ID, m2.ID} {
		wg.Add(1)
		go func(i int, memberID uint) {
			defer wg.Done()
			_, results[i] = lifecycle.Create(ctx, memberID, event.ID, category.ID)
		}(i, memberID)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrCapacityExceeded):
			rejections++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || rejections != 1 {
		t.Errorf("expected exactly one success and one rejection, got %d/%d", successes, rejections)
	}

	confirmed, err := ConfirmedCount(db, category.ID)
	if err != nil {
		t.Fatalf("ConfirmedCount failed: %v", err)
	}
	if confirmed != 1 {
		t.Errorf("expected exactly 1 confirmed booking, got %d", confirmed)
	}
}

func TestBookingHistoryTrail(t *testing.T) {
	db := testutil.NewTestDB(t)
	manager := testutil.CreateMember(t, db, "manager")
	club := testutil.CreateClub(t, db, "Chess Club", manager)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	category := testutil.CreateCategory(t, db, event, "Standard", 5)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	b, err := lifecycle.Create(ctx, manager.ID, event.ID, category.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := lifecycle.CheckIn(ctx, manager.ID, CheckinToken(b.Identifier)); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	history, err := lifecycle.History(ctx, manager.ID, b.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Status != models.BookingConfirmed || history[1].Status != models.BookingUsed {
		t.Errorf("unexpected history statuses: %s, %s", history[0].Status, history[1].Status)
	}
}

func TestListBookings(t *testing.T) {
	db := testutil.NewTestDB(t)
	m1 := testutil.CreateMember(t, db, "m1")
	m2 := testutil.CreateMember(t, db, "m2")
	club := testutil.CreateClub(t, db, "Chess Club", m1)
	testutil.AddMembership(t, db, club, m2, models.RoleMember)
	event := testutil.CreateEvent(t, db, club, "Spring Open")
	c1 := testutil.CreateCategory(t, db, event, "C1", 5)
	c2 := testutil.CreateCategory(t, db, event, "C2", 5)

	lifecycle := NewLifecycle(db, nil)
	ctx := context.Background()

	b1, err := lifecycle.Create(ctx, m1.ID, event.ID, c1.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := lifecycle.Create(ctx, m2.ID, event.ID, c2.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := lifecycle.Cancel(ctx, m1.ID, b1.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	byMember, err := lifecycle.List(ctx, ListFilter{MemberID: m1.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byMember) != 1 || byMember[0].MemberID != m1.ID {
		t.Errorf("expected one booking for m1, got %+v", byMember)
	}

	confirmedOnly, err := lifecycle.List(ctx, ListFilter{EventID: event.ID, Status: models.BookingConfirmed})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(confirmedOnly) != 1 || confirmedOnly[0].Status != models.BookingConfirmed {
		t.Errorf("expected one confirmed booking, got %+v", confirmedOnly)
	}

	byCategory, err := lifecycle.List(ctx, ListFilter{CategoryID: c2.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].CategoryID != c2.ID {
		t.Errorf("expected one booking in c2, got %+v", byCategory)
	}
}
