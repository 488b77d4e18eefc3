package views

import (
	"context"
	"sync"
	"time"

	"pro_market/internal/admin"
	"pro_market/internal/core"
	"pro_market/internal/guard"
	"pro_market/internal/listing"
	"pro_market/pkg/apperrors"
)

// AdminPanel is the administrator view: the full professional roster with
// moderation actions, plus the analytics dashboard backed by the refresher.
type AdminPanel struct {
	api       core.MarketplaceAPI
	console   *admin.Console
	refresher *admin.AnalyticsRefresher
	creds     core.CredentialSource
	logger    core.ILogger

	mu      sync.RWMutex
	allPros []core.Professional
	stats   core.DashboardStats
	search  string
}

// NewAdminPanel creates the admin workspace
func NewAdminPanel(
	api core.MarketplaceAPI,
	console *admin.Console,
	refresher *admin.AnalyticsRefresher,
	creds core.CredentialSource,
	logger core.ILogger,
) *AdminPanel {
	return &AdminPanel{
		api:       api,
		console:   console,
		refresher: refresher,
		creds:     creds,
		logger:    logger.WithField("component", "admin_panel"),
	}
}

// Open loads the roster and starts the analytics refresher
func (v *AdminPanel) Open(ctx context.Context) error {
	if !guard.CanViewAdminControls(v.creds.Get()) {
		return apperrors.ErrForbiddenView
	}

	if err := v.Reload(ctx); err != nil {
		return err
	}
	return v.refresher.Start()
}

// Close stops the analytics refresher
func (v *AdminPanel) Close() error {
	return v.refresher.Stop()
}

// Reload refetches the dashboard roster and counters
func (v *AdminPanel) Reload(ctx context.Context) error {
	dashboard, err := v.api.FetchDashboard(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.allPros = dashboard.AllPros
	v.stats = dashboard.Stats
	v.mu.Unlock()
	return nil
}

// SetSearch updates the roster search term
func (v *AdminPanel) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

// Roster returns the full roster (suspended and unverified included)
// restricted to the active search term.
func (v *AdminPanel) Roster() []core.Professional {
	v.mu.RLock()
	pros, term := v.allPros, v.search
	v.mu.RUnlock()
	return listing.Search(pros, term)
}

// Stats returns the dashboard counters
func (v *AdminPanel) Stats() core.DashboardStats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stats
}

// Analytics returns the cached analytics report, its derivation time, and
// the last refresh error, if any.
func (v *AdminPanel) Analytics() (*admin.Report, time.Time, error) {
	return v.refresher.Report()
}

// RefreshAnalytics forces an immediate analytics fetch
func (v *AdminPanel) RefreshAnalytics(ctx context.Context) error {
	return v.refresher.Refresh(ctx)
}

// Verify marks a professional as verified, then reloads the roster
func (v *AdminPanel) Verify(ctx context.Context, proID string) error {
	return v.console.Verify(ctx, proID)
}

// Suspend toggles a professional's suspension
func (v *AdminPanel) Suspend(ctx context.Context, proID string) error {
	return v.console.Suspend(ctx, proID)
}

// Delete permanently removes a user. Confirmed reports whether the caller
// acknowledged the confirmation prompt; unconfirmed calls are dropped.
func (v *AdminPanel) Delete(ctx context.Context, userID string, confirmed bool) error {
	if !confirmed {
		v.logger.Info("Delete not confirmed, skipping", "user_id", userID)
		return nil
	}
	return v.console.Delete(ctx, userID)
}
