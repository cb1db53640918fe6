package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/productstore/pkg/config"
)

const sentryFlushTimeout = 2 * time.Second

// SetupSentry initializes the Sentry SDK. An empty DSN leaves it disabled,
// which makes every helper below a no-op.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: sampleRatio(cfg.TraceSampling),
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware attaches a hub to each request and reports panics.
// It re-panics so Recovery still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{
		Repanic: true,
		Timeout: sentryFlushTimeout,
	}).Handle
}

// CaptureError reports err on the request's hub, or the global hub when the
// call did not come through SentryMiddleware.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}
