// Package events is the in-process pub/sub bus that carries product
// lifecycle events, built on Watermill's Go channel transport.
//
// Every subscriber of a topic gets every message. Messages published to a
// topic nobody subscribes to are dropped, and nothing survives a restart, so
// delivery is at-most-once across processes. Handlers must be idempotent:
// a failing handler is retried with exponential backoff, then the message is
// dropped and the error reported.
//
// W3C trace context travels in message metadata, so handler spans join the
// trace of the request that published the event.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/productstore/pkg/logger"
)

const (
	tracerName          = "github.com/ghuser/productstore/pkg/events"
	defaultBuffer       = 256
	defaultDrainTimeout = 30 * time.Second
	errChanCapacity     = 100
)

// ErrClosed is returned by Publish, Subscribe and Ping after Close.
var ErrClosed = errors.New("events: bus closed")

// Handler consumes one message. A nil return Acks it.
type Handler = func(ctx context.Context, msg *message.Message) error

// EventBus is safe for concurrent use.
type EventBus struct {
	pubsub *gochannel.GoChannel
	log    logger.Logger
	tracer trace.Tracer
	retry  RetryPolicy
	drain  time.Duration

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures an EventBus.
type Option func(*busOptions)

type busOptions struct {
	buffer int64
	retry  RetryPolicy
	drain  time.Duration
}

// WithRetry overrides the handler retry policy.
func WithRetry(p RetryPolicy) Option {
	return func(o *busOptions) { o.retry = p }
}

// WithBuffer sets how many undelivered messages each subscriber may queue.
func WithBuffer(n int64) Option {
	return func(o *busOptions) { o.buffer = n }
}

// WithDrainTimeout bounds how long Close waits for in-flight handlers.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *busOptions) { o.drain = d }
}

// NewEventBus returns a ready bus. Close it on shutdown to drain handlers.
func NewEventBus(log logger.Logger, opts ...Option) *EventBus {
	o := busOptions{
		buffer: defaultBuffer,
		retry:  DefaultRetryPolicy,
		drain:  defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &EventBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: o.buffer,
		}, newLogAdapter(log)),
		log:    log,
		tracer: otel.Tracer(tracerName),
		retry:  o.retry,
		drain:  o.drain,
	}
}

// Publish injects the trace context of ctx into each message and sends them to topic.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if b.closed.Load() {
		return ErrClosed
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}

	if err := b.pubsub.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic until ctx is cancelled
// or the bus is closed.
//
// Handler errors are retried per the bus RetryPolicy. Once retries are
// exhausted the message is Acked anyway, since gochannel would redeliver a
// Nacked message without limit and stall the topic behind it. The error goes
// on the returned channel, which the caller must drain:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.Error("subscriber", "error", err) } }()
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errChanCapacity)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)
		for msg := range msgs {
			err := b.consume(ctx, topic, msg, handler)
			msg.Ack()
			if err == nil {
				continue
			}
			b.log.Error("events: dropping message after retries", "topic", topic, "message_id", msg.UUID, "error", err)
			select {
			case errCh <- err:
			default:
				b.log.Error("events: error channel full, dropping error", "topic", topic, "error", err)
			}
		}
	}()
	return errCh, nil
}

// consume restores the publisher's trace and runs handler inside a consumer span.
func (b *EventBus) consume(ctx context.Context, topic string, msg *message.Message, handler Handler) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
	ctx, span := b.tracer.Start(ctx, "events.consume "+topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "watermill"),
			attribute.String("messaging.destination.name", topic),
			attribute.String("messaging.message.id", msg.UUID),
		),
	)
	defer span.End()

	err := b.retry.Run(ctx, func(ctx context.Context) error { return handler(ctx, msg) }, b.log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
	}
	return err
}

// Ping reports whether the bus still accepts messages.
func (b *EventBus) Ping(context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close stops delivery and waits for in-flight handlers, up to the drain
// timeout. Further calls are no-ops.
func (b *EventBus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("events: close pubsub: %w", err)
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(b.drain):
		b.log.Error("events: timed out waiting for in-flight handlers", "timeout", b.drain)
	}
	return nil
}
