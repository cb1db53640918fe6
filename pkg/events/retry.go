package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/productstore/pkg/logger"
)

// RetryPolicy retries a failing handler with exponential backoff.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy makes 3 attempts, waiting 1s then 2s.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: time.Second}

// Run calls fn until it succeeds, Attempts is reached or ctx is done.
// The last handler error is wrapped in the returned error.
func (p RetryPolicy) Run(ctx context.Context, fn func(context.Context) error, log logger.Logger) error {
	attempts := max(p.Attempts, 1)
	delay := p.BaseDelay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
		}

		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("events: retry aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}
