package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

const waitFor = 2 * time.Second

func newBus(t *testing.T, opts ...Option) *EventBus {
	t.Helper()
	opts = append([]Option{WithRetry(RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond})}, opts...)
	bus := NewEventBus(nopLogger(), opts...)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

// useTracer installs a recording tracer provider and the W3C propagator.
func useTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func newMessage(payload string) *message.Message {
	return message.NewMessage(watermill.NewUUID(), []byte(payload))
}

func TestEventBus_DeliversToEverySubscriber(t *testing.T) {
	bus := newBus(t)

	got := make(chan string, 2)
	for range 2 {
		_, err := bus.Subscribe(context.Background(), "product.created", func(_ context.Context, msg *message.Message) error {
			got <- string(msg.Payload)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, bus.Publish(context.Background(), "product.created", newMessage(`{"name":"Laptop"}`)))

	for range 2 {
		select {
		case payload := <-got:
			assert.JSONEq(t, `{"name":"Laptop"}`, payload)
		case <-time.After(waitFor):
			t.Fatal("message was not delivered")
		}
	}
}

func TestEventBus_HandlerJoinsPublisherTrace(t *testing.T) {
	rec := useTracer(t)
	bus := NewEventBus(nopLogger())
	t.Cleanup(func() { _ = bus.Close() })

	got := make(chan trace.SpanContext, 1)
	_, err := bus.Subscribe(context.Background(), "product.updated", func(ctx context.Context, _ *message.Message) error {
		got <- trace.SpanContextFromContext(ctx)
		return nil
	})
	require.NoError(t, err)

	ctx, span := otel.Tracer("test").Start(context.Background(), "PATCH /products/{id}")
	defer span.End()
	require.NoError(t, bus.Publish(ctx, "product.updated", newMessage(`{}`)))

	select {
	case sc := <-got:
		assert.Equal(t, span.SpanContext().TraceID(), sc.TraceID())
		assert.NotEqual(t, span.SpanContext().SpanID(), sc.SpanID(), "handler runs in its own consumer span")
	case <-time.After(waitFor):
		t.Fatal("message was not delivered")
	}

	require.Eventually(t, func() bool { return len(rec.Ended()) > 0 }, waitFor, 5*time.Millisecond)
	consumer := rec.Ended()[0]
	assert.Equal(t, "events.consume product.updated", consumer.Name())
	assert.Equal(t, trace.SpanKindConsumer, consumer.SpanKind())
}

func TestEventBus_RetriesThenReportsError(t *testing.T) {
	bus := newBus(t)

	var calls atomic.Int32
	errCh, err := bus.Subscribe(context.Background(), "product.deleted", func(context.Context, *message.Message) error {
		calls.Add(1)
		return errors.New("redis down")
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "product.deleted", newMessage(`{}`)))

	select {
	case err := <-errCh:
		assert.ErrorContains(t, err, "redis down")
	case <-time.After(waitFor):
		t.Fatal("expected handler error on errCh")
	}

	// The failed message is not redelivered once retries run out.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
	select {
	case err := <-errCh:
		t.Fatalf("unexpected second error: %v", err)
	default:
	}
}

func TestEventBus_FailedMessageDoesNotStallTopic(t *testing.T) {
	bus := newBus(t, WithRetry(RetryPolicy{Attempts: 1}))

	var calls atomic.Int32
	delivered := make(chan string, 1)
	_, err := bus.Subscribe(context.Background(), "product.updated", func(_ context.Context, msg *message.Message) error {
		calls.Add(1)
		if string(msg.Payload) == "bad" {
			return errors.New("cannot handle")
		}
		delivered <- string(msg.Payload)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "product.updated", newMessage("bad"), newMessage("good")))

	select {
	case payload := <-delivered:
		assert.Equal(t, "good", payload)
	case <-time.After(waitFor):
		t.Fatal("message behind a failing one was never delivered")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(nopLogger())
	require.NoError(t, bus.Ping(context.Background()))

	errCh, err := bus.Subscribe(context.Background(), "product.created", func(context.Context, *message.Message) error { return nil })
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close(), "second Close is a no-op")

	_, open := <-errCh
	assert.False(t, open, "error channel closes with the bus")

	assert.ErrorIs(t, bus.Ping(context.Background()), ErrClosed)
	assert.ErrorIs(t, bus.Publish(context.Background(), "product.created", newMessage(`{}`)), ErrClosed)
	_, err = bus.Subscribe(context.Background(), "product.created", func(context.Context, *message.Message) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEventBus_CloseGivesUpAfterDrainTimeout(t *testing.T) {
	bus := NewEventBus(nopLogger(), WithDrainTimeout(20*time.Millisecond))

	started, release := make(chan struct{}), make(chan struct{})
	defer close(release)
	_, err := bus.Subscribe(context.Background(), "product.created", func(context.Context, *message.Message) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "product.created", newMessage(`{}`)))
	<-started

	begin := time.Now()
	require.NoError(t, bus.Close())
	assert.Less(t, time.Since(begin), waitFor)
}
