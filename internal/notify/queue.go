// Package notify implements the transient toast queue: time-expiring,
// user-dismissable messages appended by any component.
package notify

import (
	"context"
	"sync"
	"time"

	"pro_market/internal/core"
	"pro_market/pkg/telemetry"
)

// DefaultTTL matches the display window of the original toast container
const DefaultTTL = 5 * time.Second

// Queue is a self-pruning notification list. Insertion order is display
// order, oldest first. One TTL per queue instance.
type Queue struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  []core.Notification
	timers map[int64]*time.Timer
	lastID int64
	logger core.ILogger
	closed bool
}

// NewQueue creates a queue with the given TTL (DefaultTTL when zero)
func NewQueue(ttl time.Duration, logger core.ILogger) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:    ttl,
		timers: make(map[int64]*time.Timer),
		logger: logger.WithField("component", "notify_queue"),
	}
}

// Push appends a notification and schedules its removal after the TTL.
// The id is the creation timestamp, bumped on collision so several pushes in
// the same tick all survive with distinct ids.
func (q *Queue) Push(message string, severity core.Severity) int64 {
	now := time.Now()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}

	id := now.UnixNano()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id

	q.items = append(q.items, core.Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
	})
	q.timers[id] = time.AfterFunc(q.ttl, func() {
		q.Dismiss(id)
	})
	count := len(q.items)
	q.mu.Unlock()

	m := telemetry.GetGlobalMetrics()
	m.SetActiveNotifications(int64(count))
	if m.NotificationsTotal != nil {
		m.NotificationsTotal.Add(context.Background(), 1)
	}
	q.logger.Debug("Notification pushed", "id", id, "severity", severity)
	return id
}

// Dismiss removes a notification immediately regardless of TTL state.
// Dismissing an unknown or already-expired id is a no-op.
func (q *Queue) Dismiss(id int64) {
	q.mu.Lock()
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	count := len(q.items)
	q.mu.Unlock()

	telemetry.GetGlobalMetrics().SetActiveNotifications(int64(count))
}

// Active returns the currently displayed notifications in insertion order
func (q *Queue) Active() []core.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]core.Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of live notifications
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops all pending expiry timers. Further pushes are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
}
