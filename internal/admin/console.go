// Package admin implements the administrator console actions and the
// analytics dashboard refresher.
package admin

import (
	"context"

	"pro_market/internal/api"
	"pro_market/internal/core"
	"pro_market/pkg/concurrency"
)

// Console dispatches moderation actions. Actions run on a worker pool so a
// slow backend call never blocks the UI loop; outcomes come back as toasts.
type Console struct {
	api      core.MarketplaceAPI
	notifier core.Notifier
	pool     *concurrency.WorkerPool
	logger   core.ILogger
}

// NewConsole creates the admin console
func NewConsole(apiClient core.MarketplaceAPI, notifier core.Notifier, pool *concurrency.WorkerPool, logger core.ILogger) *Console {
	return &Console{
		api:      apiClient,
		notifier: notifier,
		pool:     pool,
		logger:   logger.WithField("component", "admin_console"),
	}
}

// Verify marks a professional as verified
func (c *Console) Verify(ctx context.Context, proID string) error {
	return c.dispatch(ctx, "verify", proID, "Professional verified.", func(ctx context.Context) error {
		return c.api.VerifyPro(ctx, proID)
	})
}

// Suspend toggles a professional's suspension
func (c *Console) Suspend(ctx context.Context, proID string) error {
	return c.dispatch(ctx, "suspend", proID, "Professional suspension updated.", func(ctx context.Context) error {
		return c.api.SuspendPro(ctx, proID)
	})
}

// Delete permanently removes a user. The shell is expected to have asked
// for confirmation before calling; deletion is not reversible.
func (c *Console) Delete(ctx context.Context, userID string) error {
	return c.dispatch(ctx, "delete", userID, "User deleted.", func(ctx context.Context) error {
		return c.api.DeleteUser(ctx, userID)
	})
}

func (c *Console) dispatch(ctx context.Context, action, id, successMsg string, call func(context.Context) error) error {
	return c.pool.Submit(func() {
		if err := call(ctx); err != nil {
			c.logger.Error("Admin action failed", "action", action, "id", id, "error", err.Error())
			c.notifier.Push(api.UserMessage(err, "Action failed."), core.SeverityError)
			return
		}
		c.logger.Info("Admin action applied", "action", action, "id", id)
		c.notifier.Push(successMsg, core.SeveritySuccess)
	})
}
