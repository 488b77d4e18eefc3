// Package poll implements the booking reconciliation loop: a fixed-interval
// fetch of the current user's bookings, diffed against the previously
// observed snapshot to surface status transitions as notifications.
package poll

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pro_market/internal/core"
	"pro_market/pkg/telemetry"
)

// BookingPoller drives the Idle -> Fetching -> Reconciling/Failed -> Idle
// cycle. At most one cycle is in flight per poller; a tick that fires while
// the prior cycle is still running is skipped.
type BookingPoller struct {
	fetcher      core.BookingFetcher
	notifier     core.Notifier
	logger       core.ILogger
	interval     time.Duration
	fetchTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	inFlight atomic.Bool

	mu        sync.Mutex
	prev      map[string]core.Booking
	primed    bool
	lastCycle atomic.Int64
}

// NewBookingPoller creates a poller. Interval 20s on the client marketplace
// view; the admin analytics refresher runs its own slower loop.
func NewBookingPoller(
	fetcher core.BookingFetcher,
	notifier core.Notifier,
	logger core.ILogger,
	interval time.Duration,
	fetchTimeout time.Duration,
) *BookingPoller {
	ctx, cancel := context.WithCancel(context.Background())

	if fetchTimeout <= 0 || fetchTimeout >= interval {
		fetchTimeout = interval / 2
	}

	return &BookingPoller{
		fetcher:      fetcher,
		notifier:     notifier,
		logger:       logger.WithField("component", "booking_poller"),
		interval:     interval,
		fetchTimeout: fetchTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the polling loop. The first cycle runs immediately so the
// view has data on mount; it primes the snapshot and never emits.
func (p *BookingPoller) Start() error {
	p.logger.Info("Starting booking poller", "interval", p.interval)

	p.wg.Add(1)
	go p.runLoop()

	return nil
}

// Stop cancels the loop and waits for any in-flight cycle to unwind. After
// Stop returns, no continuation will mutate state or push notifications.
func (p *BookingPoller) Stop() error {
	p.logger.Info("Stopping booking poller")
	p.cancel()
	p.wg.Wait()
	return nil
}

// LastCycle returns when the most recent cycle finished, for health checks
func (p *BookingPoller) LastCycle() time.Time {
	nanos := p.lastCycle.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

func (p *BookingPoller) runLoop() {
	defer p.wg.Done()

	p.runCycle()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle()
		}
	}
}

func (p *BookingPoller) runCycle() {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Warn("Skipping poll tick, previous cycle still in flight")
		return
	}
	defer p.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(p.ctx, p.fetchTimeout)
	defer cancel()

	if err := p.Poll(ctx); err != nil {
		// The timer keeps running; the next tick retries at the fixed interval.
		p.logger.Error("Poll cycle failed", "error", err.Error())
	}
}

// Poll performs one fetch-diff-swap cycle. On fetch failure the previous
// snapshot is retained unchanged; on success it is always replaced, whether
// or not any transitions were found.
func (p *BookingPoller) Poll(ctx context.Context) error {
	m := telemetry.GetGlobalMetrics()

	bookings, err := p.fetcher.FetchMyBookings(ctx)
	if err != nil {
		if m.PollFailuresTotal != nil {
			m.PollFailuresTotal.Add(ctx, 1)
		}
		return fmt.Errorf("failed to fetch bookings: %w", err)
	}

	// The owning view may have been torn down while the fetch was in the
	// air; checked before any state mutation or notification.
	if p.ctx.Err() != nil {
		return p.ctx.Err()
	}

	p.mu.Lock()
	var transitions []Transition
	if p.primed {
		transitions = Diff(p.prev, bookings)
	}
	p.prev = Snapshot(bookings)
	p.primed = true
	p.mu.Unlock()

	for _, tr := range transitions {
		p.announce(ctx, tr)
	}

	p.lastCycle.Store(time.Now().UnixNano())
	if m.PollCyclesTotal != nil {
		m.PollCyclesTotal.Add(ctx, 1)
	}
	return nil
}

// announce raises a toast for accepted or rejected transitions; every other
// status change is silent.
func (p *BookingPoller) announce(ctx context.Context, tr Transition) {
	name := tr.Booking.Professional.Name
	if name == "" {
		name = "Professional"
	}

	switch {
	case tr.To.Accepted():
		p.notifier.Push(fmt.Sprintf("Your request with %s has been accepted!", name), core.SeveritySuccess)
	case tr.To == core.BookingRejected:
		p.notifier.Push(fmt.Sprintf("Your request with %s was declined.", name), core.SeverityError)
	default:
		return
	}

	telemetry.GetGlobalMetrics().CountTransition(ctx, string(tr.To))
	p.logger.Info("Booking status changed",
		"booking_id", tr.Booking.ID,
		"from", tr.From,
		"to", tr.To)
}
