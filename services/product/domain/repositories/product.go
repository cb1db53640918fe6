package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/productstore/services/product/domain/models"
)

// ProductRepository is the persistence port for the Product aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Every method is a single store round trip.
type ProductRepository interface {
	// Insert stores a new product. Returns domain.ErrProductAlreadyExists when
	// the id collides with an existing document.
	Insert(ctx context.Context, p *models.Product) error

	// FindByID returns domain.ErrProductNotFound when no document matches.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// Find returns every product whose price lies inside r, in store order.
	Find(ctx context.Context, r models.PriceRange) ([]*models.Product, error)

	// FindOneAndUpdate sets the patch's non-nil fields and returns the
	// post-update document. It never upserts: a missing id yields
	// domain.ErrProductNotFound.
	FindOneAndUpdate(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error)

	// DeleteOne removes the product and reports how many documents went away.
	DeleteOne(ctx context.Context, id uuid.UUID) (int64, error)
}
