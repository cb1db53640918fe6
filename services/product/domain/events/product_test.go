package events_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/productstore/services/product/domain/events"
)

func TestNewProductEvent(t *testing.T) {
	id := uuid.New()
	evt := events.NewProductEvent(events.TopicProductUpdated, id)

	if evt.EventID == uuid.Nil {
		t.Fatal("expected event id to be set")
	}
	if evt.Version != events.CurrentVersion {
		t.Errorf("Version: got %d, want %d", evt.Version, events.CurrentVersion)
	}
	if evt.Kind != events.TopicProductUpdated || evt.ProductID != id {
		t.Errorf("unexpected event: %+v", evt)
	}
	if evt.OccurredAt.IsZero() {
		t.Error("expected occurred_at to be set")
	}
	if events.NewProductEvent(events.TopicProductUpdated, id).EventID == evt.EventID {
		t.Error("expected distinct event ids per publish")
	}
}

func TestProductEvent_JSONFieldNames(t *testing.T) {
	evt := events.NewProductEvent(events.TopicProductCreated, uuid.New())
	evt.Name = "Laptop"
	evt.Price = 2500

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "kind", "product_id", "name", "price", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestTopics(t *testing.T) {
	want := []string{"product.created", "product.updated", "product.deleted"}
	if len(events.Topics) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(events.Topics))
	}
	for i, topic := range want {
		if events.Topics[i] != topic {
			t.Errorf("Topics[%d]: got %q, want %q", i, events.Topics[i], topic)
		}
	}
}
