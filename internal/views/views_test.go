package views

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro_market/internal/admin"
	"pro_market/internal/booking"
	"pro_market/internal/core"
	"pro_market/internal/listing"
	"pro_market/internal/mock"
	"pro_market/internal/poll"
	"pro_market/internal/session"
	"pro_market/pkg/apperrors"
	"pro_market/pkg/concurrency"
	"pro_market/pkg/forms"
)

func loginForm(email, password string) forms.LoginForm {
	return forms.LoginForm{Email: email, Password: password}
}

// memPersistence keeps the credential in memory for shell tests
type memPersistence struct {
	cred  core.Credential
	found bool
}

func (m *memPersistence) Save(ctx context.Context, cred core.Credential) error {
	m.cred, m.found = cred, true
	return nil
}

func (m *memPersistence) Load(ctx context.Context) (core.Credential, bool, error) {
	return m.cred, m.found, nil
}

func (m *memPersistence) Delete(ctx context.Context) error {
	m.cred, m.found = core.Credential{}, false
	return nil
}

func (m *memPersistence) Close() error { return nil }

func openStore(t *testing.T, cred core.Credential) *session.Store {
	t.Helper()
	persist := &memPersistence{}
	if cred.Authenticated() {
		persist.cred, persist.found = cred, true
	}
	s, err := session.Open(context.Background(), persist, mock.NewLogger())
	require.NoError(t, err)
	return s
}

func creds(role core.Role) *mock.Creds {
	return &mock.Creds{Cred: core.Credential{Token: "tok", Role: role}}
}

func newClientHome(backend *mock.Backend, notifier *mock.Notifier, source core.CredentialSource) *ClientHome {
	actions := booking.NewActions(backend, source, notifier, mock.NewLogger())
	poller := poll.NewBookingPoller(backend, notifier, mock.NewLogger(), time.Minute, time.Second)
	return NewClientHome(backend, actions, poller, notifier, source, mock.NewLogger())
}

func TestClientHome_OpenRequiresClientRole(t *testing.T) {
	backend := mock.NewBackend()
	v := newClientHome(backend, mock.NewNotifier(), creds(core.RolePro))

	assert.ErrorIs(t, v.Open(context.Background()), apperrors.ErrForbiddenView)
	assert.Zero(t, backend.CallCount("FetchDashboard"))
}

func TestClientHome_ListingAppliesFilterAndSearch(t *testing.T) {
	backend := mock.NewBackend()
	backend.Pros = []core.Professional{
		{ID: "1", Name: "Alice", Skills: []string{"Plumber"}, IsVerified: true},
		{ID: "2", Name: "Bob", Skills: []string{"Painter"}, IsVerified: true},
		{ID: "3", Name: "Carol", Skills: []string{"Plumber"}},
	}
	v := newClientHome(backend, mock.NewNotifier(), creds(core.RoleClient))
	require.NoError(t, v.Reload(context.Background()))

	all := v.Listing()
	require.Len(t, all, 2, "unverified pros stay hidden")

	v.SelectCategory("Plumber")
	plumbers := v.Listing()
	require.Len(t, plumbers, 1)
	assert.Equal(t, "Alice", plumbers[0].Name)

	v.SetSearch("bob")
	v.SelectCategory(listing.CategoryAll)
	assert.Len(t, v.Listing(), 1)
}

func TestClientHome_UnknownCategoryFallsBackToAll(t *testing.T) {
	backend := mock.NewBackend()
	backend.Pros = []core.Professional{
		{ID: "1", Name: "Alice", Skills: []string{"Plumber"}, IsVerified: true},
	}
	v := newClientHome(backend, mock.NewNotifier(), creds(core.RoleClient))
	require.NoError(t, v.Reload(context.Background()))

	v.SelectCategory("Locksmith")
	assert.Len(t, v.Listing(), 1)
}

func TestClientHome_HireRefreshesBookings(t *testing.T) {
	backend := mock.NewBackend()
	pro := core.Professional{ID: "pro-1", Name: "Alice", Skills: []string{"Plumber"}, IsVerified: true}
	backend.Pros = []core.Professional{pro}
	v := newClientHome(backend, mock.NewNotifier(), creds(core.RoleClient))
	require.NoError(t, v.Reload(context.Background()))

	require.NoError(t, v.Hire(context.Background(), pro))

	bookings := v.MyBookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, "pro-1", bookings[0].Professional.ID)
	assert.Equal(t, core.BookingPending, bookings[0].Status)
}

func TestProWorkspace_OpenLoadsBothHalves(t *testing.T) {
	backend := mock.NewBackend()
	backend.Profile = &core.ProProfile{ID: "pro-1", Name: "Alice"}
	backend.Bookings = []core.Booking{
		{ID: "a", Status: core.BookingPending},
		{ID: "b", Status: core.BookingApproved},
		{ID: "c", Status: core.BookingPending},
	}
	v := NewProWorkspace(backend, booking.NewActions(backend, creds(core.RolePro), mock.NewNotifier(), mock.NewLogger()), creds(core.RolePro), mock.NewLogger())

	require.NoError(t, v.Open(context.Background()))

	require.NotNil(t, v.Profile())
	assert.Equal(t, "Alice", v.Profile().Name)

	pending, accepted := v.Counts()
	assert.Equal(t, 2, pending)
	assert.Equal(t, 1, accepted)
}

func TestProWorkspace_FailedLoadInstallsNothing(t *testing.T) {
	backend := mock.NewBackend()
	backend.Profile = &core.ProProfile{ID: "pro-1"}
	backend.Errs["FetchMyBookings"] = assert.AnError
	v := NewProWorkspace(backend, booking.NewActions(backend, creds(core.RolePro), mock.NewNotifier(), mock.NewLogger()), creds(core.RolePro), mock.NewLogger())

	assert.Error(t, v.Open(context.Background()))
	assert.Nil(t, v.Profile())
	assert.Empty(t, v.Requests())
}

func TestProWorkspace_SuspendedBlocksDecisions(t *testing.T) {
	backend := mock.NewBackend()
	backend.Profile = &core.ProProfile{ID: "pro-1", IsSuspended: true}
	backend.Bookings = []core.Booking{{ID: "a", Status: core.BookingPending}}
	v := NewProWorkspace(backend, booking.NewActions(backend, creds(core.RolePro), mock.NewNotifier(), mock.NewLogger()), creds(core.RolePro), mock.NewLogger())

	require.NoError(t, v.Open(context.Background()))
	require.True(t, v.Suspended())

	assert.ErrorIs(t, v.Decide(context.Background(), "a", true), apperrors.ErrForbiddenView)
	assert.Zero(t, backend.CallCount("UpdateBookingStatus"))
}

func newAdminPanel(backend *mock.Backend, notifier *mock.Notifier, source core.CredentialSource) (*AdminPanel, *concurrency.WorkerPool) {
	pool := concurrency.NewWorkerPool(concurrency.PoolConfig{Name: "TestPool", MaxWorkers: 2}, mock.NewLogger())
	console := admin.NewConsole(backend, notifier, pool, mock.NewLogger())
	refresher := admin.NewAnalyticsRefresher(backend, mock.NewLogger(), time.Minute, time.Second)
	return NewAdminPanel(backend, console, refresher, source, mock.NewLogger()), pool
}

func TestAdminPanel_OpenRequiresAdminRole(t *testing.T) {
	backend := mock.NewBackend()
	v, _ := newAdminPanel(backend, mock.NewNotifier(), creds(core.RoleClient))

	assert.ErrorIs(t, v.Open(context.Background()), apperrors.ErrForbiddenView)
	assert.Zero(t, backend.CallCount("FetchDashboard"))
}

func TestAdminPanel_RosterShowsEveryoneAndSearches(t *testing.T) {
	backend := mock.NewBackend()
	backend.Pros = []core.Professional{
		{ID: "1", Name: "Alice", Email: "alice@example.com", IsVerified: true},
		{ID: "2", Name: "Bob", Email: "bob@example.com", IsSuspended: true},
	}
	backend.Stats = core.DashboardStats{TotalUsers: 7}
	v, _ := newAdminPanel(backend, mock.NewNotifier(), creds(core.RoleAdmin))
	require.NoError(t, v.Reload(context.Background()))

	// Admins see suspended and unverified entries too.
	assert.Len(t, v.Roster(), 2)
	assert.Equal(t, 7, v.Stats().TotalUsers)

	v.SetSearch("bob")
	roster := v.Roster()
	require.Len(t, roster, 1)
	assert.Equal(t, "Bob", roster[0].Name)
}

func TestAdminPanel_DeleteRequiresConfirmation(t *testing.T) {
	backend := mock.NewBackend()
	backend.Pros = []core.Professional{{ID: "1"}}
	v, pool := newAdminPanel(backend, mock.NewNotifier(), creds(core.RoleAdmin))

	require.NoError(t, v.Delete(context.Background(), "1", false))
	pool.Stop()
	assert.Zero(t, backend.CallCount("DeleteUser"))
}

func TestShell_LoginNavigatesByRole(t *testing.T) {
	backend := mock.NewBackend()
	backend.Token = "tok-1"
	backend.Role = core.RoleClient
	store := openStore(t, core.Credential{})
	shell := NewShell(backend, store, mock.NewNotifier(), mock.NewLogger())

	assert.Equal(t, core.RouteLogin, shell.CurrentRoute())

	errs, err := shell.Login(context.Background(), loginForm("a@b.co", "secret"))
	require.NoError(t, err)
	assert.True(t, errs.Valid())

	assert.Equal(t, core.RouteClientHome, shell.CurrentRoute())
	assert.Equal(t, "tok-1", store.Get().Token)
}

func TestShell_InvalidFormNeverReachesNetwork(t *testing.T) {
	backend := mock.NewBackend()
	store := openStore(t, core.Credential{})
	shell := NewShell(backend, store, mock.NewNotifier(), mock.NewLogger())

	errs, err := shell.Login(context.Background(), loginForm("not-an-email", ""))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.False(t, errs.Valid())
	assert.Zero(t, backend.CallCount("Login"))
}

func TestShell_LogoutReturnsToLogin(t *testing.T) {
	backend := mock.NewBackend()
	store := openStore(t, core.Credential{Token: "tok", Role: core.RoleAdmin})
	shell := NewShell(backend, store, mock.NewNotifier(), mock.NewLogger())

	assert.Equal(t, core.RouteAdmin, shell.CurrentRoute())

	shell.Logout()
	assert.Equal(t, core.RouteLogin, shell.CurrentRoute())
	assert.False(t, store.Get().Authenticated())
}

func TestShell_UnauthorizedHandlerClearsAndRedirects(t *testing.T) {
	backend := mock.NewBackend()
	store := openStore(t, core.Credential{Token: "stale", Role: core.RoleClient})
	notifier := mock.NewNotifier()
	shell := NewShell(backend, store, notifier, mock.NewLogger())

	shell.HandleUnauthorized()

	assert.Equal(t, core.RouteLogin, shell.CurrentRoute())
	assert.False(t, store.Get().Authenticated())
	assert.Contains(t, notifier.Messages(), "Please login first.")
}
