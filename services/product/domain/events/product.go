package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for the product lifecycle.
const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// Topics lists every lifecycle topic, in publish order of a product's life.
var Topics = []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}

// CurrentVersion is the schema version stamped on new events.
const CurrentVersion = 1

// ProductEvent is published after a product is created, updated or deleted.
// Kind carries the topic name so a consumer reading several topics can tell them apart.
type ProductEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	Kind       string    `json:"kind"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProductEvent stamps a fresh event id and the current UTC time.
func NewProductEvent(kind string, productID uuid.UUID) ProductEvent {
	return ProductEvent{
		EventID:    uuid.New(),
		Version:    CurrentVersion,
		Kind:       kind,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}
