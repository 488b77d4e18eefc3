package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"pro_market/internal/booking"
	"pro_market/internal/core"
	"pro_market/internal/guard"
	"pro_market/pkg/apperrors"
)

// ProWorkspace is the professional's dashboard: incoming requests plus the
// pro's own profile, loaded in parallel on open.
type ProWorkspace struct {
	api     core.MarketplaceAPI
	actions *booking.Actions
	creds   core.CredentialSource
	logger  core.ILogger

	mu       sync.RWMutex
	profile  *core.ProProfile
	bookings []core.Booking
}

// NewProWorkspace creates the professional workspace
func NewProWorkspace(
	api core.MarketplaceAPI,
	actions *booking.Actions,
	creds core.CredentialSource,
	logger core.ILogger,
) *ProWorkspace {
	return &ProWorkspace{
		api:     api,
		actions: actions,
		creds:   creds,
		logger:  logger.WithField("component", "pro_workspace"),
	}
}

// Open loads bookings and profile concurrently. Either failure fails the
// open; partial state is not installed.
func (v *ProWorkspace) Open(ctx context.Context) error {
	if !guard.CanManageBookings(v.creds.Get()) {
		return apperrors.ErrForbiddenView
	}
	return v.Reload(ctx)
}

// Reload refetches both halves of the workspace
func (v *ProWorkspace) Reload(ctx context.Context) error {
	var (
		bookings []core.Booking
		profile  *core.ProProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = v.api.FetchMyBookings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = v.api.FetchProProfile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	v.mu.Lock()
	v.bookings = bookings
	v.profile = profile
	v.mu.Unlock()
	return nil
}

// Profile returns the loaded profile, nil before the first successful load
func (v *ProWorkspace) Profile() *core.ProProfile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.profile
}

// Suspended reports whether the account is suspended; the workspace renders
// a banner and disables decisions while true.
func (v *ProWorkspace) Suspended() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.profile != nil && v.profile.IsSuspended
}

// Requests returns the current booking snapshot
func (v *ProWorkspace) Requests() []core.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]core.Booking, len(v.bookings))
	copy(out, v.bookings)
	return out
}

// Counts returns the pending and accepted totals shown in the header
func (v *ProWorkspace) Counts() (pending, accepted int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, b := range v.bookings {
		switch {
		case b.Status == core.BookingPending:
			pending++
		case b.Status.Accepted():
			accepted++
		}
	}
	return pending, accepted
}

// Decide applies an approve/reject decision to a pending request and
// refreshes the snapshot.
func (v *ProWorkspace) Decide(ctx context.Context, bookingID string, approve bool) error {
	if v.Suspended() {
		return apperrors.ErrForbiddenView
	}

	v.mu.RLock()
	var target *core.Booking
	for i := range v.bookings {
		if v.bookings[i].ID == bookingID {
			target = &v.bookings[i]
			break
		}
	}
	if target == nil {
		v.mu.RUnlock()
		return apperrors.ErrNotFound
	}
	b := *target
	v.mu.RUnlock()

	if err := v.actions.Decide(ctx, b, approve); err != nil {
		return err
	}

	if fresh, err := v.api.FetchMyBookings(ctx); err == nil {
		v.mu.Lock()
		v.bookings = fresh
		v.mu.Unlock()
	}
	return nil
}
