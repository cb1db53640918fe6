package httpx

import (
	"context"
	"net/http"
	"time"
)

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnreachable = "unreachable"
	statusDisabled    = "disabled"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient and events.EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the set of dependencies to probe in the health endpoint.
// A nil checker is reported as "disabled" and never degrades the status;
// the memory store backend and a missing REDIS_URL leave these unset.
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	EventBus string `json:"event_bus"`
}

// HealthHandler returns an http.HandlerFunc that probes all registered
// HealthCheckers and reports degraded status if any of them fail.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:   statusOK,
			Database: probe(ctx, checks.Database),
			Redis:    probe(ctx, checks.Redis),
			EventBus: probe(ctx, checks.EventBus),
		}
		for _, s := range []string{resp.Database, resp.Redis, resp.EventBus} {
			if s == statusUnreachable {
				resp.Status = statusDegraded
			}
		}

		status := http.StatusOK
		if resp.Status != statusOK {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return statusDisabled
	}
	if err := c.Ping(ctx); err != nil {
		return statusUnreachable
	}
	return statusOK
}
