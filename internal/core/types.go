// Package core defines the shared types and interfaces for the marketplace client
package core

import (
	"strings"
	"time"
)

// Role identifies what kind of user owns the current session
type Role int

const (
	RoleAnonymous Role = iota
	RoleClient
	RolePro
	RoleAdmin
)

// ParseRole maps the backend's role tag onto the closed role set.
// Unknown tags map to RoleAnonymous so they can never unlock a privileged view.
func ParseRole(tag string) Role {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "admin":
		return RoleAdmin
	case "pro":
		return RolePro
	case "client":
		return RoleClient
	default:
		return RoleAnonymous
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RolePro:
		return "pro"
	case RoleClient:
		return "client"
	default:
		return "anonymous"
	}
}

// Credential is the (token, role) pair for the current session.
// Invariant: Role is meaningful only while Token is non-empty.
type Credential struct {
	Token string
	Role  Role
}

// Authenticated reports whether a token is present.
func (c Credential) Authenticated() bool {
	return c.Token != ""
}

// Route is a navigation target in the client shell
type Route string

const (
	RouteHome       Route = "/"
	RouteLogin      Route = "/login"
	RouteRegister   Route = "/register"
	RouteAdmin      Route = "/admin"
	RouteProHome    Route = "/pro-dashboard"
	RouteClientHome Route = "/client-home"
)

// BookingStatus is the server-assigned lifecycle state of a booking
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingAccepted BookingStatus = "accepted"
	BookingRejected BookingStatus = "rejected"
)

// Accepted reports whether the status counts as an accepted booking.
// Some backend versions say "approved", others "accepted".
func (s BookingStatus) Accepted() bool {
	return s == BookingApproved || s == BookingAccepted
}

// PartyRef is the embedded counterparty summary the booking payload carries
type PartyRef struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Booking is a hire request between a client and a professional
type Booking struct {
	ID           string        `json:"_id"`
	Professional PartyRef      `json:"professional"`
	Client       PartyRef      `json:"client"`
	Status       BookingStatus `json:"status"`
	Category     string        `json:"category"`
	CreatedAt    time.Time     `json:"createdAt"`
	Rating       *int          `json:"rating,omitempty"`
}

// Rated reports whether a rating has already been attached
func (b Booking) Rated() bool {
	return b.Rating != nil
}

// Professional is one marketplace listing entry
type Professional struct {
	ID                string   `json:"_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Skills            []string `json:"skills"`
	Location          string   `json:"location"`
	IsVerified        bool     `json:"isVerified"`
	IsSuspended       bool     `json:"isSuspended"`
	Rating            float64  `json:"rating"`
	ReviewCount       int      `json:"reviewCount"`
	DailyRequestCount int      `json:"dailyRequestCount"`
}

// Visible reports whether clients may see this entry at all
func (p Professional) Visible() bool {
	return p.IsVerified && !p.IsSuspended
}

// Severity classifies a transient notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is one entry in the transient toast queue
type Notification struct {
	ID        int64
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Dashboard is the admin dashboard payload also backing the client listing
type Dashboard struct {
	AllPros []Professional `json:"allPros"`
	Stats   DashboardStats `json:"stats"`
}

// DashboardStats is the small counters block on the admin console
type DashboardStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalPros     int `json:"totalPros"`
	TotalBookings int `json:"totalBookings"`
}

// LocationCount is one aggregation bucket in the analytics payload
type LocationCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// Analytics is the aggregate metrics object served to admins and pros
type Analytics struct {
	TotalUsers          int             `json:"totalUsers"`
	TotalPros           int             `json:"totalPros"`
	TotalBookings       int             `json:"totalBookings"`
	VerifiedPros        int             `json:"verifiedPros"`
	SuspendedPros       int             `json:"suspendedPros"`
	UsersPerLocation    []LocationCount `json:"usersPerLocation"`
	ProsPerLocation     []LocationCount `json:"prosPerLocation"`
	RequestsPerLocation []LocationCount `json:"requestsPerLocation"`
}

// Registration is the profile submitted to the register endpoint
type Registration struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// ProProfile is the professional's own profile as the workspace sees it
type ProProfile struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Skills      []string `json:"skills"`
	Location    string   `json:"location"`
	IsVerified  bool     `json:"isVerified"`
	IsSuspended bool     `json:"isSuspended"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
}
