package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/productstore/services/product/domain/models"
)

// productDocument is the persisted shape of a product in the products collection.
// It composes the caller attributes with the lifecycle fields; ids are stored
// as canonical UUID strings so they stay readable from the mongo shell.
type productDocument struct {
	ID        string    `bson:"id"`
	Name      string    `bson:"name"`
	Quantity  int       `bson:"quantity"`
	Price     float64   `bson:"price"`
	Status    bool      `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDocument(p *models.Product) productDocument {
	return productDocument{
		ID:        p.ID.String(),
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d productDocument) toModel() (*models.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse product id %q: %w", d.ID, err)
	}
	return &models.Product{
		ID: id,
		ProductAttributes: models.ProductAttributes{
			Name:     d.Name,
			Quantity: d.Quantity,
			Price:    d.Price,
			Status:   d.Status,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}
