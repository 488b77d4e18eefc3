// Package booking implements the user-facing booking actions: hire with the
// advisory client-side rate limit, rating submission, and the professional's
// status decisions. The server remains authoritative for every rule checked
// here; the local checks only save a round trip and give instant feedback.
package booking

import (
	"context"
	"fmt"
	"time"

	"pro_market/internal/api"
	"pro_market/internal/core"
	"pro_market/pkg/apperrors"
	"pro_market/pkg/telemetry"
)

// PendingWindow is the trailing window inside which a second hire request
// for the same professional is blocked locally.
const PendingWindow = 2 * time.Hour

// DailyRequestCap mirrors the backend's per-professional daily limit
const DailyRequestCap = 3

// DefaultCategory is used when neither the filter nor the profile yields one
const DefaultCategory = "General Service"

// Actions bundles the booking operations for the current session
type Actions struct {
	api      core.MarketplaceAPI
	creds    core.CredentialSource
	notifier core.Notifier
	logger   core.ILogger
}

// NewActions creates the action layer
func NewActions(api core.MarketplaceAPI, creds core.CredentialSource, notifier core.Notifier, logger core.ILogger) *Actions {
	return &Actions{
		api:      api,
		creds:    creds,
		notifier: notifier,
		logger:   logger.WithField("component", "booking_actions"),
	}
}

// HasRecentPending reports whether a pending booking with the professional
// was created inside the trailing window ending at now.
func HasRecentPending(bookings []core.Booking, proID string, now time.Time, window time.Duration) bool {
	cutoff := now.Add(-window)
	for _, b := range bookings {
		if b.Professional.ID == proID && b.Status == core.BookingPending && b.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}

// PickCategory resolves the category attached to a hire request: the
// selected filter skill unless it is the All sentinel, else the
// professional's first listed skill, else the generic fallback.
func PickCategory(pro core.Professional, selectedSkill string) string {
	if selectedSkill != "" && selectedSkill != "All" {
		return selectedSkill
	}
	if len(pro.Skills) > 0 {
		return pro.Skills[0]
	}
	return DefaultCategory
}

// Hire submits a hire request after the local pre-checks. Blocked requests
// never reach the network.
func (a *Actions) Hire(ctx context.Context, pro core.Professional, selectedSkill string, current []core.Booking) error {
	if !a.creds.Get().Authenticated() {
		a.notifier.Push("Please login first.", core.SeverityError)
		return apperrors.ErrNotAuthenticated
	}

	if HasRecentPending(current, pro.ID, time.Now(), PendingWindow) {
		a.notifier.Push("You already have a pending request for this pro submitted recently.", core.SeverityError)
		a.countLocalBlock(ctx)
		return fmt.Errorf("pending request within window: %w", apperrors.ErrRateLimited)
	}

	if pro.DailyRequestCount >= DailyRequestCap {
		a.notifier.Push(fmt.Sprintf("%s is not taking more requests today.", pro.Name), core.SeverityError)
		a.countLocalBlock(ctx)
		return fmt.Errorf("daily request cap reached: %w", apperrors.ErrRateLimited)
	}

	category := PickCategory(pro, selectedSkill)
	if err := a.api.CreateBooking(ctx, pro.ID, category); err != nil {
		a.notifier.Push(api.UserMessage(err, "Booking failed."), core.SeverityError)
		return err
	}

	a.notifier.Push(fmt.Sprintf("%s request sent successfully!", category), core.SeveritySuccess)
	a.logger.Info("Hire request sent", "pro_id", pro.ID, "category", category)
	return nil
}

// RateableBooking finds the booking that makes the rating control actionable
// for the professional: accepted and not yet rated.
func RateableBooking(bookings []core.Booking, proID string) (core.Booking, bool) {
	for _, b := range bookings {
		if b.Professional.ID == proID && b.Status.Accepted() && !b.Rated() {
			return b, true
		}
	}
	return core.Booking{}, false
}

// Rate submits a rating for a booking the client is party to. The
// eligibility rules are rechecked here so a stale view cannot submit.
func (a *Actions) Rate(ctx context.Context, bookings []core.Booking, bookingID string, value int) error {
	if value < 1 || value > 5 {
		return apperrors.ErrInvalidRating
	}

	var target *core.Booking
	for i := range bookings {
		if bookings[i].ID == bookingID {
			target = &bookings[i]
			break
		}
	}
	if target == nil {
		return apperrors.ErrNotFound
	}
	if target.Rated() {
		return apperrors.ErrAlreadyRated
	}
	if !target.Status.Accepted() {
		return apperrors.ErrBookingNotRatable
	}

	if err := a.api.RateBooking(ctx, bookingID, value); err != nil {
		a.notifier.Push("Error saving rating.", core.SeverityError)
		return err
	}

	a.notifier.Push("Rating submitted successfully!", core.SeveritySuccess)
	return nil
}

// Decide applies a professional's approve/reject decision to a pending booking
func (a *Actions) Decide(ctx context.Context, b core.Booking, approve bool) error {
	if b.Status != core.BookingPending {
		return fmt.Errorf("booking %s is not pending: %w", b.ID, apperrors.ErrDuplicateAction)
	}

	status := core.BookingRejected
	if approve {
		status = core.BookingApproved
	}

	if err := a.api.UpdateBookingStatus(ctx, b.ID, status); err != nil {
		a.notifier.Push("Failed to update status.", core.SeverityError)
		return err
	}

	a.logger.Info("Booking decided", "booking_id", b.ID, "status", status)
	return nil
}

func (a *Actions) countLocalBlock(ctx context.Context) {
	m := telemetry.GetGlobalMetrics()
	if m.HireBlockedLocallyTotal != nil {
		m.HireBlockedLocallyTotal.Add(ctx, 1)
	}
}
