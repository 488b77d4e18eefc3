package views

import (
	"context"
	"sync"

	"pro_market/internal/core"
	"pro_market/internal/guard"
	"pro_market/internal/session"
	"pro_market/pkg/apperrors"
	"pro_market/pkg/forms"
)

// Shell is the outermost navigation surface. It owns the current route,
// runs the login/logout flows, and implements core.Navigator so the API
// layer can force a redirect after an authorization failure.
type Shell struct {
	api      core.MarketplaceAPI
	store    *session.Store
	notifier core.Notifier
	logger   core.ILogger

	mu    sync.RWMutex
	route core.Route
}

// NewShell creates the shell, landing on the route the restored session allows
func NewShell(api core.MarketplaceAPI, store *session.Store, notifier core.Notifier, logger core.ILogger) *Shell {
	return &Shell{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logger.WithField("component", "shell"),
		route:    guard.ResolveLandingRoute(store.Get()),
	}
}

// CurrentRoute returns the active navigation target
func (s *Shell) CurrentRoute() core.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route
}

// NavigateTo implements core.Navigator
func (s *Shell) NavigateTo(route core.Route) {
	s.mu.Lock()
	prev := s.route
	s.route = route
	s.mu.Unlock()

	if prev != route {
		s.logger.Info("Navigated", "from", prev, "to", route)
	}
}

// Login validates the form, authenticates, installs the credential, and
// navigates to the role's landing route. A logout racing the network call
// wins: the late credential is dropped and the shell stays on the login view.
func (s *Shell) Login(ctx context.Context, form forms.LoginForm) (forms.Errors, error) {
	if errs := form.Validate(); !errs.Valid() {
		return errs, apperrors.ErrValidation
	}

	epoch := s.store.BeginAuth()
	token, role, err := s.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}

	accepted, err := s.store.CompleteAuth(epoch, token, role)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, nil
	}

	s.NavigateTo(guard.ResolveLandingRoute(s.store.Get()))
	return nil, nil
}

// Register validates and submits a new profile, then navigates to login
func (s *Shell) Register(ctx context.Context, form forms.RegisterForm) (forms.Errors, error) {
	if errs := form.Validate(); !errs.Valid() {
		return errs, apperrors.ErrValidation
	}

	if err := s.api.Register(ctx, form.Registration()); err != nil {
		return nil, err
	}

	s.notifier.Push("Registration successful! Please login.", core.SeveritySuccess)
	s.NavigateTo(core.RouteLogin)
	return nil, nil
}

// Logout clears the session and returns to the login view. The credential
// is gone even when persistence cleanup fails.
func (s *Shell) Logout() {
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("Failed to remove persisted session", "error", err.Error())
	}
	s.NavigateTo(core.RouteLogin)
}

// HandleUnauthorized is wired as the API client's unauthorized handler:
// clear the session and land on login, uniformly for every call site.
func (s *Shell) HandleUnauthorized() {
	s.notifier.Push("Please login first.", core.SeverityError)
	s.Logout()
}
