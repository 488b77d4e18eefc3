package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro_market/internal/core"
	"pro_market/internal/mock"
	"pro_market/pkg/apperrors"
)

func newTestActions(backend *mock.Backend, notifier *mock.Notifier, cred core.Credential) *Actions {
	return NewActions(backend, &mock.Creds{Cred: cred}, notifier, mock.NewLogger())
}

func clientCred() core.Credential {
	return core.Credential{Token: "tok", Role: core.RoleClient}
}

func verifiedPro(id string, skills ...string) core.Professional {
	return core.Professional{ID: id, Name: "Alice", Skills: skills, IsVerified: true}
}

func TestHasRecentPending(t *testing.T) {
	now := time.Now()
	bookings := []core.Booking{
		{
			Professional: core.PartyRef{ID: "pro-1"},
			Status:       core.BookingPending,
			CreatedAt:    now.Add(-10 * time.Minute),
		},
		{
			Professional: core.PartyRef{ID: "pro-2"},
			Status:       core.BookingPending,
			CreatedAt:    now.Add(-3 * time.Hour),
		},
		{
			Professional: core.PartyRef{ID: "pro-3"},
			Status:       core.BookingApproved,
			CreatedAt:    now.Add(-10 * time.Minute),
		},
	}

	assert.True(t, HasRecentPending(bookings, "pro-1", now, PendingWindow))
	assert.False(t, HasRecentPending(bookings, "pro-2", now, PendingWindow), "outside the window")
	assert.False(t, HasRecentPending(bookings, "pro-3", now, PendingWindow), "not pending")
	assert.False(t, HasRecentPending(bookings, "pro-9", now, PendingWindow), "no bookings at all")
}

func TestPickCategory(t *testing.T) {
	tests := []struct {
		name     string
		pro      core.Professional
		selected string
		expected string
	}{
		{"selected skill wins", verifiedPro("p", "Plumber"), "Electrician", "Electrician"},
		{"All falls back to first skill", verifiedPro("p", "Plumber", "Painter"), "All", "Plumber"},
		{"empty falls back to first skill", verifiedPro("p", "Mason"), "", "Mason"},
		{"no skills yields generic", verifiedPro("p"), "All", DefaultCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PickCategory(tt.pro, tt.selected))
		})
	}
}

func TestHire_Succeeds(t *testing.T) {
	backend := mock.NewBackend()
	notifier := mock.NewNotifier()
	a := newTestActions(backend, notifier, clientCred())

	err := a.Hire(context.Background(), verifiedPro("pro-1", "Plumber"), "Plumber", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.CallCount("CreateBooking"))
	require.Len(t, notifier.Pushed, 1)
	assert.Equal(t, "Plumber request sent successfully!", notifier.Pushed[0].Message)
	assert.Equal(t, core.SeveritySuccess, notifier.Pushed[0].Severity)
}

func TestHire_RequiresLogin(t *testing.T) {
	backend := mock.NewBackend()
	notifier := mock.NewNotifier()
	a := newTestActions(backend, notifier, core.Credential{})

	err := a.Hire(context.Background(), verifiedPro("pro-1", "Plumber"), "All", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Zero(t, backend.CallCount("CreateBooking"))
	require.Len(t, notifier.Pushed, 1)
	assert.Equal(t, "Please login first.", notifier.Pushed[0].Message)
}

func TestHire_RecentPendingBlocksWithoutNetworkCall(t *testing.T) {
	backend := mock.NewBackend()
	notifier := mock.NewNotifier()
	a := newTestActions(backend, notifier, clientCred())

	current := []core.Booking{{
		ID:           "bk-1",
		Professional: core.PartyRef{ID: "pro-1"},
		Status:       core.BookingPending,
		CreatedAt:    time.Now().Add(-10 * time.Minute),
	}}

	err := a.Hire(context.Background(), verifiedPro("pro-1", "Plumber"), "All", current)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)

	// The blocked request never reaches the backend.
	assert.Zero(t, backend.CallCount("CreateBooking"))
	require.Len(t, notifier.Pushed, 1)
	assert.Equal(t, "You already have a pending request for this pro submitted recently.", notifier.Pushed[0].Message)
	assert.Equal(t, core.SeverityError, notifier.Pushed[0].Severity)
}

func TestHire_DailyCapBlocksLocally(t *testing.T) {
	backend := mock.NewBackend()
	notifier := mock.NewNotifier()
	a := newTestActions(backend, notifier, clientCred())

	pro := verifiedPro("pro-1", "Plumber")
	pro.DailyRequestCount = DailyRequestCap

	err := a.Hire(context.Background(), pro, "All", nil)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Zero(t, backend.CallCount("CreateBooking"))
}

func TestHire_ServerRejectionSurfacesFallbackMessage(t *testing.T) {
	backend := mock.NewBackend()
	backend.Errs["CreateBooking"] = assert.AnError
	notifier := mock.NewNotifier()
	a := newTestActions(backend, notifier, clientCred())

	err := a.Hire(context.Background(), verifiedPro("pro-1", "Plumber"), "All", nil)
	assert.Error(t, err)
	require.Len(t, notifier.Pushed, 1)
	assert.Equal(t, "Booking failed.", notifier.Pushed[0].Message)
}

func TestRateableBooking(t *testing.T) {
	five := 5
	bookings := []core.Booking{
		{ID: "a", Professional: core.PartyRef{ID: "pro-1"}, Status: core.BookingPending},
		{ID: "b", Professional: core.PartyRef{ID: "pro-1"}, Status: core.BookingApproved, Rating: &five},
		{ID: "c", Professional: core.PartyRef{ID: "pro-1"}, Status: core.BookingAccepted},
	}

	b, ok := RateableBooking(bookings, "pro-1")
	require.True(t, ok)
	assert.Equal(t, "c", b.ID)

	_, ok = RateableBooking(bookings, "pro-2")
	assert.False(t, ok)
}

func TestRate(t *testing.T) {
	base := []core.Booking{{
		ID:           "bk-1",
		Professional: core.PartyRef{ID: "pro-1"},
		Status:       core.BookingApproved,
	}}

	t.Run("valid rating submits and toasts", func(t *testing.T) {
		backend := mock.NewBackend()
		backend.Bookings = append([]core.Booking(nil), base...)
		notifier := mock.NewNotifier()
		a := newTestActions(backend, notifier, clientCred())

		require.NoError(t, a.Rate(context.Background(), base, "bk-1", 4))
		assert.Equal(t, 1, backend.CallCount("RateBooking"))
		require.NotNil(t, backend.Bookings[0].Rating)
		assert.Equal(t, 4, *backend.Bookings[0].Rating)
		require.Len(t, notifier.Pushed, 1)
		assert.Equal(t, "Rating submitted successfully!", notifier.Pushed[0].Message)
	})

	t.Run("out of range value", func(t *testing.T) {
		backend := mock.NewBackend()
		a := newTestActions(backend, mock.NewNotifier(), clientCred())

		assert.ErrorIs(t, a.Rate(context.Background(), base, "bk-1", 0), apperrors.ErrInvalidRating)
		assert.ErrorIs(t, a.Rate(context.Background(), base, "bk-1", 6), apperrors.ErrInvalidRating)
		assert.Zero(t, backend.CallCount("RateBooking"))
	})

	t.Run("unknown booking", func(t *testing.T) {
		a := newTestActions(mock.NewBackend(), mock.NewNotifier(), clientCred())
		assert.ErrorIs(t, a.Rate(context.Background(), base, "missing", 3), apperrors.ErrNotFound)
	})

	t.Run("already rated", func(t *testing.T) {
		four := 4
		rated := []core.Booking{{ID: "bk-1", Status: core.BookingApproved, Rating: &four}}
		a := newTestActions(mock.NewBackend(), mock.NewNotifier(), clientCred())
		assert.ErrorIs(t, a.Rate(context.Background(), rated, "bk-1", 5), apperrors.ErrAlreadyRated)
	})

	t.Run("pending booking is not ratable", func(t *testing.T) {
		pending := []core.Booking{{ID: "bk-1", Status: core.BookingPending}}
		a := newTestActions(mock.NewBackend(), mock.NewNotifier(), clientCred())
		assert.ErrorIs(t, a.Rate(context.Background(), pending, "bk-1", 5), apperrors.ErrBookingNotRatable)
	})

	t.Run("backend failure toasts save error", func(t *testing.T) {
		backend := mock.NewBackend()
		backend.Errs["RateBooking"] = assert.AnError
		notifier := mock.NewNotifier()
		a := newTestActions(backend, notifier, clientCred())

		assert.Error(t, a.Rate(context.Background(), base, "bk-1", 3))
		require.Len(t, notifier.Pushed, 1)
		assert.Equal(t, "Error saving rating.", notifier.Pushed[0].Message)
	})
}

func TestDecide(t *testing.T) {
	proCred := core.Credential{Token: "tok", Role: core.RolePro}

	t.Run("approve pending booking", func(t *testing.T) {
		backend := mock.NewBackend()
		backend.Bookings = []core.Booking{{ID: "bk-1", Status: core.BookingPending}}
		a := newTestActions(backend, mock.NewNotifier(), proCred)

		require.NoError(t, a.Decide(context.Background(), backend.Bookings[0], true))
		assert.Equal(t, core.BookingApproved, backend.Bookings[0].Status)
	})

	t.Run("reject pending booking", func(t *testing.T) {
		backend := mock.NewBackend()
		backend.Bookings = []core.Booking{{ID: "bk-1", Status: core.BookingPending}}
		a := newTestActions(backend, mock.NewNotifier(), proCred)

		require.NoError(t, a.Decide(context.Background(), backend.Bookings[0], false))
		assert.Equal(t, core.BookingRejected, backend.Bookings[0].Status)
	})

	t.Run("non-pending booking is rejected locally", func(t *testing.T) {
		backend := mock.NewBackend()
		a := newTestActions(backend, mock.NewNotifier(), proCred)

		b := core.Booking{ID: "bk-1", Status: core.BookingApproved}
		assert.ErrorIs(t, a.Decide(context.Background(), b, true), apperrors.ErrDuplicateAction)
		assert.Zero(t, backend.CallCount("UpdateBookingStatus"))
	})
}
