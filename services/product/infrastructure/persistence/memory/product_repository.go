// Package memory implements the product repository port in process memory.
// It mirrors the mongo adapter's semantics and backs STORE_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	productdomain "github.com/ghuser/productstore/services/product/domain"
	"github.com/ghuser/productstore/services/product/domain/models"
)

// ProductRepository is a mutex-guarded map of products. Reads and writes
// hand out copies so callers never alias stored state.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product
	order    []uuid.UUID
}

// NewProductRepository returns an empty ProductRepository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]models.Product)}
}

func (r *ProductRepository) Insert(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; ok {
		return productdomain.ErrProductAlreadyExists
	}
	r.products[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, productdomain.ErrProductNotFound
	}
	return &p, nil
}

// Find walks products in insertion order.
func (r *ProductRepository) Find(_ context.Context, pr models.PriceRange) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.products[id]
		if pr.Contains(p.Price) {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *ProductRepository) FindOneAndUpdate(_ context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, productdomain.ErrProductNotFound
	}
	patch.Apply(&p)
	r.products[id] = p
	return &p, nil
}

func (r *ProductRepository) DeleteOne(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Ping always succeeds; it lets the repository stand in as a health checker.
func (r *ProductRepository) Ping(context.Context) error { return nil }
