// Package mock provides in-memory test doubles for the remote backend and
// the collaborating interfaces.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pro_market/internal/core"
)

// Backend implements core.MarketplaceAPI against in-memory state. Every
// method records its invocation so tests can assert which calls reached the
// network layer.
type Backend struct {
	mu sync.Mutex

	Pros      []core.Professional
	Bookings  []core.Booking
	Profile   *core.ProProfile
	Stats     core.DashboardStats
	Analytics *core.Analytics

	Token string
	Role  core.Role

	// Errs maps method name to a forced error
	Errs map[string]error

	calls     []string
	bookingID int
}

// NewBackend creates an empty mock backend
func NewBackend() *Backend {
	return &Backend{
		Errs: make(map[string]error),
	}
}

// Calls returns the ordered method invocations so far
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount returns how many times a method was invoked
func (b *Backend) CallCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (b *Backend) record(method string) error {
	b.calls = append(b.calls, method)
	return b.Errs[method]
}

func (b *Backend) Login(ctx context.Context, email, password string) (string, core.Role, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("Login"); err != nil {
		return "", core.RoleAnonymous, err
	}
	return b.Token, b.Role, nil
}

func (b *Backend) Register(ctx context.Context, reg core.Registration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record("Register")
}

func (b *Backend) FetchMyBookings(ctx context.Context) ([]core.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("FetchMyBookings"); err != nil {
		return nil, err
	}
	out := make([]core.Booking, len(b.Bookings))
	copy(out, b.Bookings)
	return out, nil
}

func (b *Backend) CreateBooking(ctx context.Context, proID, category string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("CreateBooking"); err != nil {
		return err
	}
	b.bookingID++
	b.Bookings = append(b.Bookings, core.Booking{
		ID:           fmt.Sprintf("bk-%d", b.bookingID),
		Professional: core.PartyRef{ID: proID},
		Status:       core.BookingPending,
		Category:     category,
		CreatedAt:    time.Now(),
	})
	return nil
}

func (b *Backend) UpdateBookingStatus(ctx context.Context, bookingID string, status core.BookingStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("UpdateBookingStatus"); err != nil {
		return err
	}
	for i := range b.Bookings {
		if b.Bookings[i].ID == bookingID {
			b.Bookings[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("booking %s not found", bookingID)
}

func (b *Backend) RateBooking(ctx context.Context, bookingID string, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("RateBooking"); err != nil {
		return err
	}
	for i := range b.Bookings {
		if b.Bookings[i].ID == bookingID {
			v := value
			b.Bookings[i].Rating = &v
			return nil
		}
	}
	return fmt.Errorf("booking %s not found", bookingID)
}

func (b *Backend) FetchDashboard(ctx context.Context) (*core.Dashboard, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("FetchDashboard"); err != nil {
		return nil, err
	}
	pros := make([]core.Professional, len(b.Pros))
	copy(pros, b.Pros)
	return &core.Dashboard{AllPros: pros, Stats: b.Stats}, nil
}

func (b *Backend) FetchProProfile(ctx context.Context) (*core.ProProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("FetchProProfile"); err != nil {
		return nil, err
	}
	if b.Profile == nil {
		return nil, fmt.Errorf("no profile configured")
	}
	profile := *b.Profile
	return &profile, nil
}

func (b *Backend) VerifyPro(ctx context.Context, proID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("VerifyPro"); err != nil {
		return err
	}
	for i := range b.Pros {
		if b.Pros[i].ID == proID {
			b.Pros[i].IsVerified = true
			return nil
		}
	}
	return fmt.Errorf("pro %s not found", proID)
}

func (b *Backend) SuspendPro(ctx context.Context, proID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("SuspendPro"); err != nil {
		return err
	}
	for i := range b.Pros {
		if b.Pros[i].ID == proID {
			b.Pros[i].IsSuspended = !b.Pros[i].IsSuspended
			return nil
		}
	}
	return fmt.Errorf("pro %s not found", proID)
}

func (b *Backend) DeleteUser(ctx context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("DeleteUser"); err != nil {
		return err
	}
	for i := range b.Pros {
		if b.Pros[i].ID == userID {
			b.Pros = append(b.Pros[:i], b.Pros[i+1:]...)
			return nil
		}
	}
	return nil
}

func (b *Backend) FetchAnalytics(ctx context.Context) (*core.Analytics, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("FetchAnalytics"); err != nil {
		return nil, err
	}
	if b.Analytics == nil {
		return &core.Analytics{}, nil
	}
	analytics := *b.Analytics
	return &analytics, nil
}

func (b *Backend) CheckHealth(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record("CheckHealth")
}
