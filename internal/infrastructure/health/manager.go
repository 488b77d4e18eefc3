// Package health aggregates liveness checks from the client's long-running
// pieces: the backend probe, the session persistence, and the polling loops.
package health

import (
	"fmt"
	"sync"
	"time"

	"pro_market/internal/core"
)

// HealthManager aggregates health status from registered components
type HealthManager struct {
	logger core.ILogger
	mu     sync.RWMutex
	checks map[string]func() error
}

// NewHealthManager creates a new health manager
func NewHealthManager(logger core.ILogger) *HealthManager {
	if logger == nil {
		return &HealthManager{
			checks: make(map[string]func() error),
		}
	}
	return &HealthManager{
		logger: logger.WithField("component", "health_manager"),
		checks: make(map[string]func() error),
	}
}

// Register adds a health check for a component
func (hm *HealthManager) Register(component string, check func() error) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.checks[component] = check
}

// GetStatus returns the current status of all registered components
func (hm *HealthManager) GetStatus() map[string]string {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	status := make(map[string]string)
	for component, check := range hm.checks {
		if err := check(); err != nil {
			status[component] = "Unhealthy: " + err.Error()
		} else {
			status[component] = "Healthy"
		}
	}
	return status
}

// IsHealthy returns true if all registered components are healthy
func (hm *HealthManager) IsHealthy() bool {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	for _, check := range hm.checks {
		if err := check(); err != nil {
			return false
		}
	}
	return true
}

// FreshnessCheck builds a check that fails when the last completed cycle of
// a polling loop is older than maxAge. A zero last-cycle time passes: the
// loop has not had a chance to run yet.
func FreshnessCheck(lastCycle func() time.Time, maxAge time.Duration) func() error {
	return func() error {
		last := lastCycle()
		if last.IsZero() {
			return nil
		}
		if age := time.Since(last); age > maxAge {
			return fmt.Errorf("last cycle %s ago (max %s)", age.Round(time.Second), maxAge)
		}
		return nil
	}
}
