// Package subscribers consumes product lifecycle events published on the EventBus.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/productstore/pkg/logger"
	domainevents "github.com/ghuser/productstore/services/product/domain/events"
)

// ActivityRecorder is the slice of cache.ActivityStore the subscriber writes to.
type ActivityRecorder interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
	Increment(ctx context.Context, kind string) error
}

// Subscriber is the slice of events.EventBus needed to register handlers.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error)
}

// ActivityHandler counts product lifecycle events per kind. Each event id is
// counted at most once, so EventBus retries and redeliveries are harmless.
type ActivityHandler struct {
	store ActivityRecorder
	log   logger.Logger
}

// NewActivityHandler returns an ActivityHandler writing to store.
func NewActivityHandler(store ActivityRecorder, log logger.Logger) *ActivityHandler {
	return &ActivityHandler{store: store, log: log}
}

// Handle processes one event message.
func (h *ActivityHandler) Handle(ctx context.Context, msg *message.Message) error {
	var evt domainevents.ProductEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		// Malformed payloads never succeed on retry.
		h.log.ErrorContext(ctx, "dropping malformed product event", "message_uuid", msg.UUID, "error", err)
		return nil
	}

	eventID := evt.EventID.String()
	first, err := h.store.MarkProcessed(ctx, eventID)
	if err != nil {
		return fmt.Errorf("mark event %s: %w", eventID, err)
	}
	if !first {
		h.log.DebugContext(ctx, "skipping duplicate product event", "event_id", eventID, "kind", evt.Kind)
		return nil
	}

	if err := h.store.Increment(ctx, evt.Kind); err != nil {
		if ferr := h.store.Forget(ctx, eventID); ferr != nil {
			h.log.WarnContext(ctx, "failed to release event marker", "event_id", eventID, "error", ferr)
		}
		return fmt.Errorf("count %s: %w", evt.Kind, err)
	}

	h.log.InfoContext(ctx, "product activity recorded", "kind", evt.Kind, "product_id", evt.ProductID)
	return nil
}

// Register subscribes h to every product lifecycle topic.
// Subscriber errors are drained in the background so the channels never block.
func Register(ctx context.Context, bus Subscriber, h *ActivityHandler, log logger.Logger) error {
	for _, topic := range domainevents.Topics {
		errCh, err := bus.Subscribe(ctx, topic, h.Handle)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	log.Info("event subscribers registered", "topics", domainevents.Topics)
	return nil
}
