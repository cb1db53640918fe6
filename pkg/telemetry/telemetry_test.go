package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/ghuser/productstore/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:    "productstore-test",
		ServiceVersion: "test",
		Environment:    config.EnvTesting,
		TraceSampling:  1,
	}
}

func setup(t *testing.T) http.Handler {
	t.Helper()
	shutdown, metrics, err := Setup(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, metrics)
	t.Cleanup(func() { assert.NoError(t, shutdown(context.Background())) })
	return metrics
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	return rr.Body.String()
}

func TestSetup_ExposesOTelCounters(t *testing.T) {
	metrics := setup(t)

	ops, err := otel.Meter("telemetry-test").Int64Counter("products.operations")
	require.NoError(t, err)
	ops.Add(context.Background(), 1)

	body := scrape(t, metrics)
	assert.Contains(t, body, "products_operations")
	assert.Contains(t, body, "go_goroutines")
}

func TestSetup_RepeatedCallsDoNotCollide(t *testing.T) {
	setup(t)
	setup(t)
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	setup(t)
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "baggage")
}

func TestSetup_SpansAreSampled(t *testing.T) {
	setup(t)
	_, span := otel.Tracer("telemetry-test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsSampled())
}

func TestSampleRatio(t *testing.T) {
	assert.InDelta(t, 0.25, sampleRatio(0.25), 1e-9)
	assert.InDelta(t, 0.0, sampleRatio(0), 1e-9)
	assert.InDelta(t, 1.0, sampleRatio(-1), 1e-9)
	assert.InDelta(t, 1.0, sampleRatio(7), 1e-9)
}

func TestSetupSentry_EmptyDSNIsNoop(t *testing.T) {
	assert.NoError(t, SetupSentry(testConfig()))
}

func TestCaptureError_WithoutClient(t *testing.T) {
	assert.NotPanics(t, func() {
		CaptureError(context.Background(), errors.New("boom"), map[string]string{"operation": "create"})
		CaptureError(context.Background(), nil, nil)
	})
}
