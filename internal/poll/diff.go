package poll

import (
	"pro_market/internal/core"
)

// Transition is one observed status change between two booking snapshots
type Transition struct {
	Booking core.Booking
	From    core.BookingStatus
	To      core.BookingStatus
}

// Diff compares a new booking list against the previous snapshot by booking
// id. The lookup is ordering-independent; positional changes are ignored.
// Bookings absent from the previous snapshot are new, not transitions.
func Diff(prev map[string]core.Booking, next []core.Booking) []Transition {
	if len(prev) == 0 {
		return nil
	}

	var transitions []Transition
	for _, booking := range next {
		old, seen := prev[booking.ID]
		if !seen || old.Status == booking.Status {
			continue
		}
		transitions = append(transitions, Transition{
			Booking: booking,
			From:    old.Status,
			To:      booking.Status,
		})
	}
	return transitions
}

// Snapshot indexes a booking list by id for the next cycle's diff
func Snapshot(bookings []core.Booking) map[string]core.Booking {
	snap := make(map[string]core.Booking, len(bookings))
	for _, b := range bookings {
		snap[b.ID] = b
	}
	return snap
}
