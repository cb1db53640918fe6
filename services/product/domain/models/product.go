package models

import (
	"time"

	"github.com/google/uuid"
)

// Field names shared by the persisted document and partial updates.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldQuantity  = "quantity"
	FieldPrice     = "price"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// ProductAttributes are the caller-supplied fields of a product.
type ProductAttributes struct {
	Name     string
	Quantity int
	Price    float64
	Status   bool
}

// Product is the core aggregate for this bounded context.
// ID never changes after creation and UpdatedAt is never before CreatedAt.
type Product struct {
	ID uuid.UUID
	ProductAttributes
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimestampPrecision is the resolution kept on product timestamps. It matches
// BSON datetimes, so a stored product reads back exactly as it was written.
const TimestampPrecision = time.Millisecond

// Stamp normalizes t to a UTC instant at TimestampPrecision.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

// NewProduct mints a product with a fresh v4 id. Both timestamps carry
// Stamp(now).
func NewProduct(attrs ProductAttributes, now time.Time) *Product {
	now = Stamp(now)
	return &Product{
		ID:                uuid.New(),
		ProductAttributes: attrs,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
