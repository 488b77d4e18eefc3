package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricPollCyclesTotal         = "marketplace_poll_cycles_total"
	MetricPollFailuresTotal       = "marketplace_poll_failures_total"
	MetricTransitionsTotal        = "marketplace_booking_transitions_total"
	MetricNotificationsTotal      = "marketplace_notifications_pushed_total"
	MetricNotificationsActive     = "marketplace_notifications_active"
	MetricSessionAuthenticated    = "marketplace_session_authenticated"
	MetricAuthFailuresTotal       = "marketplace_auth_failures_total"
	MetricHireBlockedLocallyTotal = "marketplace_hire_blocked_locally_total"
)

// MetricsHolder holds initialized instruments
type MetricsHolder struct {
	PollCyclesTotal         metric.Int64Counter
	PollFailuresTotal       metric.Int64Counter
	TransitionsTotal        metric.Int64Counter
	NotificationsTotal      metric.Int64Counter
	NotificationsActive     metric.Int64ObservableGauge
	SessionAuthenticated    metric.Int64ObservableGauge
	AuthFailuresTotal       metric.Int64Counter
	HireBlockedLocallyTotal metric.Int64Counter

	// State for observable gauges
	mu            sync.RWMutex
	activeToasts  int64
	authenticated int64
}

var (
	globalMetrics *MetricsHolder
	initOnce      sync.Once
)

// GetGlobalMetrics returns the singleton metrics holder
func GetGlobalMetrics() *MetricsHolder {
	initOnce.Do(func() {
		globalMetrics = &MetricsHolder{}
	})
	return globalMetrics
}

// InitMetrics initializes instruments using the meter
func (m *MetricsHolder) InitMetrics(meter metric.Meter) error {
	var err error

	m.PollCyclesTotal, err = meter.Int64Counter(MetricPollCyclesTotal,
		metric.WithDescription("Completed booking poll cycles"))
	if err != nil {
		return err
	}

	m.PollFailuresTotal, err = meter.Int64Counter(MetricPollFailuresTotal,
		metric.WithDescription("Poll cycles that failed to fetch"))
	if err != nil {
		return err
	}

	m.TransitionsTotal, err = meter.Int64Counter(MetricTransitionsTotal,
		metric.WithDescription("Booking status transitions detected by the reconciler"))
	if err != nil {
		return err
	}

	m.NotificationsTotal, err = meter.Int64Counter(MetricNotificationsTotal,
		metric.WithDescription("Notifications pushed to the toast queue"))
	if err != nil {
		return err
	}

	m.AuthFailuresTotal, err = meter.Int64Counter(MetricAuthFailuresTotal,
		metric.WithDescription("Authorization failures that cleared the session"))
	if err != nil {
		return err
	}

	m.HireBlockedLocallyTotal, err = meter.Int64Counter(MetricHireBlockedLocallyTotal,
		metric.WithDescription("Hire requests blocked by the client-side pre-check"))
	if err != nil {
		return err
	}

	m.NotificationsActive, err = meter.Int64ObservableGauge(MetricNotificationsActive,
		metric.WithDescription("Notifications currently displayed"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			obs.Observe(m.activeToasts)
			return nil
		}))
	if err != nil {
		return err
	}

	m.SessionAuthenticated, err = meter.Int64ObservableGauge(MetricSessionAuthenticated,
		metric.WithDescription("Whether a token is currently held (1=yes, 0=no)"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			obs.Observe(m.authenticated)
			return nil
		}))
	return err
}

// SetActiveNotifications updates the observable toast gauge
func (m *MetricsHolder) SetActiveNotifications(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeToasts = count
}

// SetAuthenticated updates the observable session gauge
func (m *MetricsHolder) SetAuthenticated(authenticated bool) {
	val := int64(0)
	if authenticated {
		val = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = val
}

// CountTransition records one detected status transition
func (m *MetricsHolder) CountTransition(ctx context.Context, to string) {
	if m.TransitionsTotal == nil {
		return
	}
	m.TransitionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("to", to)))
}
