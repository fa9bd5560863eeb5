package notify

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Dispatcher fans a message out to a recipient list through a Notifier.
// Sends are rate limited and best-effort: failures are logged and counted,
// never propagated, so a flaky transport cannot roll back the state change
// that triggered the notification.
type Dispatcher struct {
	notifier Notifier
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewDispatcher wraps a notifier with rate limiting. perMinute <= 0 disables
// the limiter.
func NewDispatcher(notifier Notifier, perMinute int, logger *zap.Logger) *Dispatcher {
	var limiter *rate.Limiter
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
	}
	return &Dispatcher{notifier: notifier, limiter: limiter, logger: logger}
}

// Send notifies every recipient and returns how many sends succeeded
func (d *Dispatcher) Send(ctx context.Context, recipients []string, message string, priority Priority) int {
	sent := 0
	for _, recipient := range recipients {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				d.logger.Warn("notification dispatch interrupted",
					zap.String("recipient", recipient),
					zap.Error(err))
				return sent
			}
		}
		if err := d.notifier.Notify(ctx, recipient, message, priority); err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("recipient", recipient),
				zap.String("priority", string(priority)),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}
