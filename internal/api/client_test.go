package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro_market/internal/core"
	"pro_market/internal/mock"
	"pro_market/pkg/apperrors"
	"pro_market/pkg/httpx"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httpx.NewClient(srv.URL, 5*time.Second, staticTokens(token), 100, 100)
	return NewClient(httpClient, mock.NewLogger()), srv
}

func TestLogin_Success(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "role": "client"})
	}), "")

	token, role, err := client.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, core.RoleClient, role)
	assert.Equal(t, "a@b.c", gotBody["email"])
}

func TestLogin_WrongPasswordDoesNotClearSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}), "")

	cleared := false
	client.SetUnauthorizedHandler(func() { cleared = true })

	_, _, err := client.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.False(t, cleared, "a failed login must not clear the stored session")
}

func TestExpiredToken_ClearsSessionUniformly(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "stale-token")

	cleared := 0
	client.SetUnauthorizedHandler(func() { cleared++ })

	_, err := client.FetchMyBookings(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, 1, cleared)
}

func TestForbidden_DoesNotClearSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Admins only"})
	}), "tok")

	cleared := false
	client.SetUnauthorizedHandler(func() { cleared = true })

	_, err := client.FetchDashboard(context.Background())
	assert.Error(t, err)
	assert.False(t, cleared, "a role rejection is not a session failure")
}

func TestRateLimited_CarriesVerbatimServerMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "This pro is not accepting more requests today.",
		})
	}), "tok")

	err := client.CreateBooking(context.Background(), "pro-1", "Plumber")
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Contains(t, err.Error(), "This pro is not accepting more requests today.")
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"bookings": []core.Booking{}})
	}), "tok-1")

	_, err := client.FetchMyBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestFetchMyBookings_DecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookings/my-bookings", r.URL.Path)
		w.Write([]byte(`{"bookings":[{"_id":"bk-1","status":"pending","category":"Plumber","professional":{"_id":"pro-1","name":"Alice"}}]}`))
	}), "tok")

	bookings, err := client.FetchMyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "bk-1", bookings[0].ID)
	assert.Equal(t, core.BookingPending, bookings[0].Status)
	assert.Equal(t, "Alice", bookings[0].Professional.Name)
}

func TestUpdateBookingStatus_UsesPatch(t *testing.T) {
	var gotMethod string
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}), "tok")

	require.NoError(t, client.UpdateBookingStatus(context.Background(), "bk-1", core.BookingApproved))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "bk-1", gotBody["bookingId"])
	assert.Equal(t, "approved", gotBody["status"])
}

func TestAdminEndpoints_Paths(t *testing.T) {
	var gotPaths []string
	var gotMethods []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		gotMethods = append(gotMethods, r.Method)
		w.Write([]byte(`{}`))
	}), "tok")

	ctx := context.Background()
	require.NoError(t, client.VerifyPro(ctx, "p1"))
	require.NoError(t, client.SuspendPro(ctx, "p1"))
	require.NoError(t, client.DeleteUser(ctx, "p1"))

	assert.Equal(t, []string{"/admin/pros/p1/verify", "/admin/pros/p1/suspend", "/admin/pros/p1"}, gotPaths)
	assert.Equal(t, []string{http.MethodPost, http.MethodPost, http.MethodDelete}, gotMethods)
}

func TestCheckHealth_AnyResponseMeansReachable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), "")

	assert.NoError(t, client.CheckHealth(context.Background()))
}

func TestUserMessage(t *testing.T) {
	apiErr := &httpx.APIError{StatusCode: 400, Body: []byte(`{"message":"No slots left"}`)}

	assert.Equal(t, "No slots left", UserMessage(apiErr, "Booking failed."))
	assert.Equal(t, "Booking failed.", UserMessage(assert.AnError, "Booking failed."))
	assert.Equal(t, "Booking failed.", UserMessage(&httpx.APIError{StatusCode: 500, Body: []byte("oops")}, "Booking failed."))
}
