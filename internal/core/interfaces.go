package core

import (
	"context"
)

// ILogger defines the logging interface used across the client
type ILogger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
	WithField(key string, value interface{}) ILogger
	WithFields(fields map[string]interface{}) ILogger
}

// MarketplaceAPI is the remote backend contract. All methods suspend on the
// network; everything else in the client is synchronous local computation.
type MarketplaceAPI interface {
	// Session
	Login(ctx context.Context, email, password string) (token string, role Role, err error)
	Register(ctx context.Context, reg Registration) error

	// Bookings
	FetchMyBookings(ctx context.Context) ([]Booking, error)
	CreateBooking(ctx context.Context, proID, category string) error
	UpdateBookingStatus(ctx context.Context, bookingID string, status BookingStatus) error
	RateBooking(ctx context.Context, bookingID string, value int) error

	// Listings / profiles
	FetchDashboard(ctx context.Context) (*Dashboard, error)
	FetchProProfile(ctx context.Context) (*ProProfile, error)

	// Admin
	VerifyPro(ctx context.Context, proID string) error
	SuspendPro(ctx context.Context, proID string) error
	DeleteUser(ctx context.Context, userID string) error
	FetchAnalytics(ctx context.Context) (*Analytics, error)

	CheckHealth(ctx context.Context) error
}

// CredentialStore holds the process-wide session state
type CredentialStore interface {
	Get() Credential
	Set(token string, role Role) error
	Clear() error
}

// CredentialSource is the read-only view handed to the API layer
type CredentialSource interface {
	Get() Credential
}

// Notifier receives user-facing outcome messages
type Notifier interface {
	Push(message string, severity Severity) int64
	Dismiss(id int64)
	Active() []Notification
}

// BookingFetcher is the slice of the API the poller depends on
type BookingFetcher interface {
	FetchMyBookings(ctx context.Context) ([]Booking, error)
}

// Navigator is implemented by the shell; the session layer uses it to
// redirect to the login route after an authorization failure.
type Navigator interface {
	NavigateTo(route Route)
}
