// Package api implements the typed client for the remote marketplace
// backend. The backend is an opaque collaborator: this layer only shapes
// requests, decodes envelopes, and normalizes failures.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pro_market/internal/core"
	"pro_market/pkg/apperrors"
	"pro_market/pkg/httpx"
	"pro_market/pkg/telemetry"
)

// UnauthorizedHandler runs when any call reports an expired/invalid token.
// Wired to credential clear + redirect to the login route, uniformly for
// every call site.
type UnauthorizedHandler func()

// Client implements core.MarketplaceAPI
type Client struct {
	http           *httpx.Client
	logger         core.ILogger
	onUnauthorized UnauthorizedHandler
}

// NewClient creates a marketplace API client over the resilient HTTP core
func NewClient(httpClient *httpx.Client, logger core.ILogger) *Client {
	return &Client{
		http:   httpClient,
		logger: logger.WithField("component", "api_client"),
	}
}

// SetUnauthorizedHandler registers the session-clearing redirect
func (c *Client) SetUnauthorizedHandler(handler UnauthorizedHandler) {
	c.onUnauthorized = handler
}

// wrap normalizes a transport/API error. Authorization failures escalate to
// the registered handler and come back as ErrUnauthorized.
func (c *Client) wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			c.logger.Warn("Authorization failure, clearing session", "op", op, "status", apiErr.StatusCode)
			m := telemetry.GetGlobalMetrics()
			if m.AuthFailuresTotal != nil {
				m.AuthFailuresTotal.Add(context.Background(), 1)
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return fmt.Errorf("%s: %w", op, apperrors.ErrUnauthorized)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%s: %s: %w", op, messageOrDefault(apiErr, "too many requests"), apperrors.ErrRateLimited)
		case apiErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
		default:
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrNetwork, err)
}

func messageOrDefault(apiErr *httpx.APIError, fallback string) string {
	if msg := apiErr.Message(); msg != "" {
		return msg
	}
	return fallback
}

// UserMessage extracts the server's verbatim message from an error, falling
// back to the given generic text. Used by actions when surfacing
// business-rule rejections to the toast queue.
func UserMessage(err error, fallback string) string {
	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

// Login authenticates and returns the session pair
func (c *Client) Login(ctx context.Context, email, password string) (string, core.Role, error) {
	body, err := c.http.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		// A wrong password comes back 401; that is a failed login, not an
		// expired session, so it must not clear stored credentials.
		var apiErr *httpx.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", core.RoleAnonymous, fmt.Errorf("login: %s: %w", messageOrDefault(apiErr, "invalid credentials"), apperrors.ErrValidation)
		}
		return "", core.RoleAnonymous, c.wrap("login", err)
	}

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", core.RoleAnonymous, fmt.Errorf("login: failed to decode response: %w", err)
	}
	return resp.Token, core.ParseRole(resp.Role), nil
}

// Register submits a new profile
func (c *Client) Register(ctx context.Context, reg core.Registration) error {
	_, err := c.http.Post(ctx, "/auth/register", reg)
	return c.wrap("register", err)
}

// FetchMyBookings fetches the current user's booking list
func (c *Client) FetchMyBookings(ctx context.Context) ([]core.Booking, error) {
	body, err := c.http.Get(ctx, "/bookings/my-bookings", nil)
	if err != nil {
		return nil, c.wrap("fetch bookings", err)
	}

	var resp struct {
		Bookings []core.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("fetch bookings: failed to decode response: %w", err)
	}
	return resp.Bookings, nil
}

// CreateBooking issues a hire request
func (c *Client) CreateBooking(ctx context.Context, proID, category string) error {
	_, err := c.http.Post(ctx, "/bookings/create", map[string]string{
		"proId":    proID,
		"category": category,
	})
	return c.wrap("create booking", err)
}

// UpdateBookingStatus applies a professional's approve/reject decision
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID string, status core.BookingStatus) error {
	_, err := c.http.Patch(ctx, "/bookings/update-status", map[string]string{
		"bookingId": bookingID,
		"status":    string(status),
	})
	return c.wrap("update booking status", err)
}

// RateBooking attaches a 1-5 rating to a completed booking
func (c *Client) RateBooking(ctx context.Context, bookingID string, value int) error {
	_, err := c.http.Post(ctx, "/bookings/rate", map[string]interface{}{
		"bookingId":   bookingID,
		"ratingValue": value,
	})
	return c.wrap("rate booking", err)
}

// FetchDashboard fetches the professional roster and counters
func (c *Client) FetchDashboard(ctx context.Context) (*core.Dashboard, error) {
	body, err := c.http.Get(ctx, "/admin/dashboard", nil)
	if err != nil {
		return nil, c.wrap("fetch dashboard", err)
	}

	var dashboard core.Dashboard
	if err := json.Unmarshal(body, &dashboard); err != nil {
		return nil, fmt.Errorf("fetch dashboard: failed to decode response: %w", err)
	}
	return &dashboard, nil
}

// FetchProProfile fetches the logged-in professional's own profile
func (c *Client) FetchProProfile(ctx context.Context) (*core.ProProfile, error) {
	body, err := c.http.Get(ctx, "/pros/profile", nil)
	if err != nil {
		return nil, c.wrap("fetch profile", err)
	}

	var profile core.ProProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile: failed to decode response: %w", err)
	}
	return &profile, nil
}

// VerifyPro marks a professional as verified
func (c *Client) VerifyPro(ctx context.Context, proID string) error {
	_, err := c.http.Post(ctx, "/admin/pros/"+proID+"/verify", nil)
	return c.wrap("verify pro", err)
}

// SuspendPro toggles a professional's suspension
func (c *Client) SuspendPro(ctx context.Context, proID string) error {
	_, err := c.http.Post(ctx, "/admin/pros/"+proID+"/suspend", nil)
	return c.wrap("suspend pro", err)
}

// DeleteUser permanently removes a user
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	_, err := c.http.Delete(ctx, "/admin/pros/"+userID)
	return c.wrap("delete user", err)
}

// FetchAnalytics fetches the aggregate metrics object
func (c *Client) FetchAnalytics(ctx context.Context) (*core.Analytics, error) {
	body, err := c.http.Get(ctx, "/analytics", nil)
	if err != nil {
		return nil, c.wrap("fetch analytics", err)
	}

	var analytics core.Analytics
	if err := json.Unmarshal(body, &analytics); err != nil {
		return nil, fmt.Errorf("fetch analytics: failed to decode response: %w", err)
	}
	return &analytics, nil
}

// CheckHealth probes the backend with a short deadline, for the health registry
func (c *Client) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := c.http.Get(ctx, "/health", nil)
	if err != nil {
		var apiErr *httpx.APIError
		// Any HTTP response at all means the backend is reachable.
		if errors.As(err, &apiErr) {
			return nil
		}
		return err
	}
	return nil
}
