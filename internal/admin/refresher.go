package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pro_market/internal/core"
)

// AnalyticsRefresher keeps a cached analytics report fresh on a fixed
// interval (5 minutes on the dashboard). A failed fetch keeps the last good
// report; the next tick simply retries.
type AnalyticsRefresher struct {
	api          core.MarketplaceAPI
	logger       core.ILogger
	interval     time.Duration
	fetchTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	report      *Report
	lastUpdated time.Time
	lastErr     error
}

// NewAnalyticsRefresher creates the refresher
func NewAnalyticsRefresher(apiClient core.MarketplaceAPI, logger core.ILogger, interval, fetchTimeout time.Duration) *AnalyticsRefresher {
	ctx, cancel := context.WithCancel(context.Background())

	if fetchTimeout <= 0 || fetchTimeout >= interval {
		fetchTimeout = 30 * time.Second
	}

	return &AnalyticsRefresher{
		api:          apiClient,
		logger:       logger.WithField("component", "analytics_refresher"),
		interval:     interval,
		fetchTimeout: fetchTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the refresh loop with an immediate first fetch
func (r *AnalyticsRefresher) Start() error {
	r.logger.Info("Starting analytics refresher", "interval", r.interval)

	r.wg.Add(1)
	go r.runLoop()

	return nil
}

// Stop cancels the loop and waits for it to unwind
func (r *AnalyticsRefresher) Stop() error {
	r.logger.Info("Stopping analytics refresher")
	r.cancel()
	r.wg.Wait()
	return nil
}

// Refresh performs one fetch immediately (the dashboard's manual refresh)
func (r *AnalyticsRefresher) Refresh(ctx context.Context) error {
	analytics, err := r.api.FetchAnalytics(ctx)
	if err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		return fmt.Errorf("failed to fetch analytics: %w", err)
	}

	if r.ctx.Err() != nil {
		return r.ctx.Err()
	}

	report := DeriveReport(analytics)

	r.mu.Lock()
	r.report = &report
	r.lastUpdated = time.Now()
	r.lastErr = nil
	r.mu.Unlock()

	return nil
}

// Report returns the cached report, when it was derived, and the error from
// the most recent cycle, if any.
func (r *AnalyticsRefresher) Report() (*Report, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.report, r.lastUpdated, r.lastErr
}

func (r *AnalyticsRefresher) runLoop() {
	defer r.wg.Done()

	r.runCycle()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.runCycle()
		}
	}
}

func (r *AnalyticsRefresher) runCycle() {
	ctx, cancel := context.WithTimeout(r.ctx, r.fetchTimeout)
	defer cancel()

	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("Analytics refresh failed", "error", err.Error())
	}
}
