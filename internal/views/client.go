// Package views assembles the per-role workspaces. A workspace owns its
// background loops and exposes snapshot accessors to the shell; rendering is
// out of scope here.
package views

import (
	"context"
	"sync"

	"pro_market/internal/booking"
	"pro_market/internal/core"
	"pro_market/internal/guard"
	"pro_market/internal/listing"
	"pro_market/internal/poll"
	"pro_market/pkg/apperrors"
)

// ClientHome is the client marketplace view: the filtered professional
// listing plus the user's own requests, kept fresh by the booking poller the
// view owns.
type ClientHome struct {
	api      core.MarketplaceAPI
	actions  *booking.Actions
	poller   *poll.BookingPoller
	notifier core.Notifier
	creds    core.CredentialSource
	logger   core.ILogger

	mu       sync.RWMutex
	allPros  []core.Professional
	bookings []core.Booking
	category string
	search   string
}

// NewClientHome creates the client workspace
func NewClientHome(
	api core.MarketplaceAPI,
	actions *booking.Actions,
	poller *poll.BookingPoller,
	notifier core.Notifier,
	creds core.CredentialSource,
	logger core.ILogger,
) *ClientHome {
	return &ClientHome{
		api:      api,
		actions:  actions,
		poller:   poller,
		notifier: notifier,
		creds:    creds,
		logger:   logger.WithField("component", "client_home"),
		category: listing.CategoryAll,
	}
}

// Open loads the listing and starts the poller. The workspace is usable even
// when the listing fetch fails; the toast reports the failure and Reload can
// retry.
func (v *ClientHome) Open(ctx context.Context) error {
	if !guard.CanHire(v.creds.Get()) {
		return apperrors.ErrForbiddenView
	}

	if err := v.Reload(ctx); err != nil {
		v.logger.Error("Initial listing load failed", "error", err.Error())
	}

	return v.poller.Start()
}

// Close stops the poller; no continuation will touch the view afterwards
func (v *ClientHome) Close() error {
	return v.poller.Stop()
}

// Reload refetches the listing and the user's bookings
func (v *ClientHome) Reload(ctx context.Context) error {
	dashboard, err := v.api.FetchDashboard(ctx)
	if err != nil {
		return err
	}
	bookings, err := v.api.FetchMyBookings(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.allPros = dashboard.AllPros
	v.bookings = bookings
	v.mu.Unlock()
	return nil
}

// SelectCategory switches the active category filter. Unknown values fall
// back to the All sentinel.
func (v *ClientHome) SelectCategory(category string) {
	valid := false
	for _, c := range listing.Categories {
		if c == category {
			valid = true
			break
		}
	}
	if !valid {
		category = listing.CategoryAll
	}

	v.mu.Lock()
	v.category = category
	v.mu.Unlock()
}

// SetSearch updates the free-text search term
func (v *ClientHome) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

// Listing returns the professionals currently visible under the active
// category filter and search term.
func (v *ClientHome) Listing() []core.Professional {
	v.mu.RLock()
	pros, category, term := v.allPros, v.category, v.search
	v.mu.RUnlock()

	return listing.Search(listing.Filter(pros, category), term)
}

// Census returns visible professional counts per canonical category
func (v *ClientHome) Census() map[string]int {
	v.mu.RLock()
	pros := v.allPros
	v.mu.RUnlock()
	return listing.Census(pros)
}

// MyBookings returns the most recent snapshot of the user's requests
func (v *ClientHome) MyBookings() []core.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]core.Booking, len(v.bookings))
	copy(out, v.bookings)
	return out
}

// Hire submits a hire request for the given professional under the active
// category filter, then refreshes the local booking snapshot on success.
func (v *ClientHome) Hire(ctx context.Context, pro core.Professional) error {
	v.mu.RLock()
	category := v.category
	bookings := v.bookings
	v.mu.RUnlock()

	if err := v.actions.Hire(ctx, pro, category, bookings); err != nil {
		return err
	}

	if fresh, err := v.api.FetchMyBookings(ctx); err == nil {
		v.mu.Lock()
		v.bookings = fresh
		v.mu.Unlock()
	}
	return nil
}

// Rate submits a rating for one of the user's bookings
func (v *ClientHome) Rate(ctx context.Context, bookingID string, value int) error {
	v.mu.RLock()
	bookings := v.bookings
	v.mu.RUnlock()
	return v.actions.Rate(ctx, bookings, bookingID, value)
}
