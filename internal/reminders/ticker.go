package reminders

import (
	"context"
	"errors"
	"time"
	"tradedesk/internal/common"
)

// Start runs a cycle immediately and then on every interval until ctx
// is cancelled
func (r *Runner) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("reminders.Start: interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			r.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "reminder ticker stopped")
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, err := r.RunCycle(ctx, time.Now()); err != nil {
		if errors.Is(err, ErrorCycleInProgress) {
			r.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "skipping reminder cycle, another one is in progress")
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		r.serviceLogs <- common.ServiceLogf(common.LogLevelError, "reminder cycle failed: %s", err)
	}
}
